package docs

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
	`<w:p><w:r><w:t>Skills</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>Python, Go &amp; Docker</w:t></w:r></w:p>` +
	`</w:body></w:document>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

func buildDocx(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range map[string]string{
		"word/document.xml":            documentXML,
		"word/_rels/document.xml.rels": relsXML,
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := io.WriteString(w, body); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func TestExtractText(t *testing.T) {
	text, err := Extract(KindTXT, []byte("Skills\r\nGo"))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "Skills\nGo" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestExtractDocx(t *testing.T) {
	text, err := Extract(KindDOCX, buildDocx(t))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(text, "Skills\nPython, Go & Docker") {
		t.Fatalf("unexpected docx text %q", text)
	}
}

func TestExtractInvalidInput(t *testing.T) {
	cases := []struct {
		name string
		kind Kind
		data []byte
	}{
		{"empty", KindTXT, nil},
		{"blank text", KindTXT, []byte(" \n\t")},
		{"unsupported", Kind("rtf"), []byte("{\\rtf1}")},
		{"broken pdf", KindPDF, []byte("not a pdf")},
		{"broken docx", KindDOCX, []byte("not a zip")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Extract(tc.kind, tc.data); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestDocxText(t *testing.T) {
	got := docxText(`<w:p><w:r><w:t>A</w:t><w:tab/><w:t>B</w:t></w:r></w:p><w:p><w:t>&lt;C&gt;</w:t></w:p>`)
	if got != "A\tB\n<C>\n" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		name, mime string
		want       Kind
		wantErr    bool
	}{
		{name: "cv.PDF", want: KindPDF},
		{name: "cv.docx", want: KindDOCX},
		{name: "notes.txt", want: KindTXT},
		{name: "upload", mime: "application/pdf", want: KindPDF},
		{name: "upload", mime: "text/plain; charset=utf-8", want: KindTXT},
		{name: "cv.odt", mime: "application/octet-stream", wantErr: true},
	}

	for _, tc := range cases {
		got, err := KindOf(tc.name, tc.mime)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("KindOf(%q, %q): expected ErrInvalidInput, got %v", tc.name, tc.mime, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("KindOf(%q, %q) = %q, %v; want %q", tc.name, tc.mime, got, err, tc.want)
		}
	}
}

type fakeS3 struct {
	bucket, key string
	body        string
	err         error
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.bucket, f.key = *in.Bucket, *in.Key
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestLoaderLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.txt")
	if err := os.WriteFile(path, []byte("Skills: Go"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	name, data, err := NewLoader(S3Config{}).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if name != "resume.txt" || string(data) != "Skills: Go" {
		t.Fatalf("unexpected result %q %q", name, data)
	}
}

func TestLoaderS3(t *testing.T) {
	fake := &fakeS3{body: "Skills: Python"}
	loader := &Loader{s3: fake}

	name, data, err := loader.Load(context.Background(), "s3://resumes/users/42/cv.txt")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if fake.bucket != "resumes" || fake.key != "users/42/cv.txt" {
		t.Fatalf("unexpected object %s/%s", fake.bucket, fake.key)
	}
	if name != "cv.txt" || string(data) != "Skills: Python" {
		t.Fatalf("unexpected result %q %q", name, data)
	}

	fake.err = errors.New("access denied")
	if _, _, err := loader.Load(context.Background(), "s3://resumes/cv.txt"); err == nil {
		t.Fatalf("expected error from s3")
	}
	if _, _, err := loader.Load(context.Background(), "s3://resumes"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for location without key, got %v", err)
	}
}

func TestReadLimited(t *testing.T) {
	_, err := readLimited(io.LimitReader(zeroReader{}, MaxSize+10))
	if !IsTooLarge(err) || !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected too large error, got %v", err)
	}
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}
