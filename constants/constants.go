package constants

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const OutDir = "out"

// MaxUploadSize caps request bodies of the transcription endpoint.
const MaxUploadSize = 32 << 20

func GetOutDir() string {
	path := os.Getenv("BRAILLEDEX_OUT_DIR")
	if path != "" {
		return path
	}
	return "./" + OutDir
}

// GetWorkers is the number of parts transcribed at once; 0 means one per
// CPU.
func GetWorkers() int {
	n, err := strconv.Atoi(os.Getenv("BRAILLEDEX_WORKERS"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func GetPort() string {
	port := os.Getenv("PORT")
	if port != "" {
		return port
	}
	return "8080"
}

func GetAllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func GetHTTPTimeout() time.Duration {
	d, err := time.ParseDuration(os.Getenv("BRAILLEDEX_HTTP_TIMEOUT"))
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// GetDynamoEndpoint overrides the AWS endpoint, for DynamoDB Local.
func GetDynamoEndpoint() string {
	return os.Getenv("BRAILLEDEX_DYNAMODB_ENDPOINT")
}

// GetDynamoTable is empty when transcriptions should not be recorded.
func GetDynamoTable() string {
	return os.Getenv("BRAILLEDEX_DYNAMODB_TABLE")
}

func GetAWSRegion() string {
	region := os.Getenv("AWS_REGION")
	if region != "" {
		return region
	}
	return "localhost"
}
