package model

// TranscriptionRecord is what the server remembers about a transcription.
type TranscriptionRecord struct {
	Id       string `json:"id"`
	Title    string `json:"title,omitempty"`
	Composer string `json:"composer,omitempty"`
	Parts    int    `json:"parts"`
	Measures int    `json:"measures"`
	Warnings int    `json:"warnings"`
	Created  int64  `json:"created"`
}

type TranscriptionsResponse struct {
	Transcriptions []TranscriptionRecord `json:"transcriptions"`
}
