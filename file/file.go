// Package file loads MusicXML documents from disk or the web and hands
// them out as UTF-8 score text.
package file

import (
	"archive/zip"
	"bytes"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jsphweid/brailledex/constants"
	"github.com/pkg/errors"
	xmldom "github.com/subchen/go-xmldom"
	"golang.org/x/net/html/charset"
)

var extensions = []string{".xml", ".musicxml", ".mxl"}

var declEncoding = regexp.MustCompile(`^(<\?xml[^>]*?encoding\s*=\s*["'])([^"']+)(["'])`)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func isURL(name string) bool {
	return strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://")
}

// Open reads a local path or an http(s) URL. Compressed .mxl containers
// are unpacked and declared encodings other than UTF-8 are transcoded.
func Open(name string) (io.ReadCloser, error) {
	data, err := Read(name)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func Read(name string) ([]byte, error) {
	var data []byte
	var err error
	if isURL(name) {
		data, err = fetch(name)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "could not read %s", name)
	}
	return Decode(data)
}

func fetch(url string) ([]byte, error) {
	client := &http.Client{Timeout: constants.GetHTTPTimeout()}
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// Decode turns raw file contents, plain or zipped, into UTF-8 MusicXML.
func Decode(data []byte) ([]byte, error) {
	if IsCompressed(data) {
		unpacked, err := Unpack(data)
		if err != nil {
			return nil, err
		}
		data = unpacked
	}
	return ToUTF8(data)
}

// IsCompressed looks for the zip local file header.
func IsCompressed(data []byte) bool {
	return bytes.HasPrefix(data, []byte("PK\x03\x04"))
}

// Unpack returns the root score of an .mxl container, as named by
// META-INF/container.xml. Without a container the first .xml entry
// outside META-INF is used.
func Unpack(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrap(err, "could not open compressed MusicXML")
	}

	entries := make(map[string]*zip.File)
	for _, f := range zr.File {
		entries[f.Name] = f
	}

	rootPath := ""
	if container, ok := entries["META-INF/container.xml"]; ok {
		content, err := readEntry(container)
		if err != nil {
			return nil, err
		}
		doc, err := xmldom.Parse(bytes.NewReader(content))
		if err != nil {
			return nil, errors.Wrap(err, "could not parse META-INF/container.xml")
		}
		if rootfile := find(doc.Root, "rootfile"); rootfile != nil {
			for _, a := range rootfile.Attributes {
				if a.Name == "full-path" {
					rootPath = a.Value
				}
			}
		}
	}
	if rootPath == "" {
		for _, f := range zr.File {
			if !strings.HasPrefix(f.Name, "META-INF/") && path.Ext(f.Name) == ".xml" {
				rootPath = f.Name
				break
			}
		}
	}

	entry, ok := entries[rootPath]
	if !ok {
		return nil, errors.Errorf("compressed MusicXML has no root score %q", rootPath)
	}
	return readEntry(entry)
}

func find(n *xmldom.Node, name string) *xmldom.Node {
	if n == nil || n.Name == name {
		return n
	}
	for _, c := range n.Children {
		if found := find(c, name); found != nil {
			return found
		}
	}
	return nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "could not open %s", f.Name)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// ToUTF8 transcodes documents whose XML declaration names another
// encoding and rewrites the declaration to match.
func ToUTF8(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	m := declEncoding.FindSubmatchIndex(data)
	if m == nil {
		return data, nil
	}
	label := strings.ToLower(string(data[m[4]:m[5]]))
	if label == "utf-8" || label == "utf8" {
		return data, nil
	}

	r, err := charset.NewReaderLabel(label, bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "unsupported encoding %q", label)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "could not decode %s", label)
	}
	return declEncoding.ReplaceAll(decoded, []byte("${1}UTF-8${3}")), nil
}

// Gather expands directories into the MusicXML files below them. Plain
// file arguments and URLs are kept as given.
func Gather(paths []string, maxNum int) ([]string, error) {
	var res []string
	add := func(p string) bool {
		if maxNum > 0 && len(res) >= maxNum {
			return false
		}
		res = append(res, p)
		return true
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if isURL(p) || err != nil || !info.IsDir() {
			if !add(p) {
				break
			}
			continue
		}
		walk := func(s string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !hasScoreExtension(s) {
				return nil
			}
			if !add(s) {
				return filepath.SkipDir
			}
			return nil
		}
		if err := filepath.WalkDir(p, walk); err != nil && err != filepath.SkipDir {
			return nil, errors.Wrapf(err, "could not walk %s", p)
		}
	}
	return res, nil
}

func hasScoreExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}
