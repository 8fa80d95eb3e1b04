package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAssetID(t *testing.T) {
	cases := []struct {
		ref  string
		want string
	}{
		{"http://localhost:8000/uploads/abc-123.png", "abc-123"},
		{"/uploads/photo.jpeg", "photo"},
		{"plain.jpg", "plain"},
		{"noext", "noext"},
	}
	for _, tc := range cases {
		if got := AssetID(tc.ref); got != tc.want {
			t.Errorf("AssetID(%q) = %q, want %q", tc.ref, got, tc.want)
		}
	}
}

func TestDiskStore_UploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir, "http://localhost:8000/uploads/")
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	url, err := store.Upload(context.Background(), "cat.PNG", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasPrefix(url, "http://localhost:8000/uploads/") {
		t.Fatalf("unexpected URL: %q", url)
	}
	if !strings.HasSuffix(url, ".png") {
		t.Fatalf("expected lowercased extension, got %q", url)
	}

	// The file must exist and hold the uploaded bytes.
	name := url[strings.LastIndex(url, "/")+1:]
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read stored blob: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("unexpected blob content: %q", data)
	}

	// Delete by derived asset id (no extension).
	if err := store.Delete(context.Background(), AssetID(url)); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
		t.Fatalf("blob still present after delete: %v", err)
	}
}

func TestDiskStore_DeleteMissingIsNoError(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "http://x/uploads")
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	if err := store.Delete(context.Background(), "never-uploaded"); err != nil {
		t.Fatalf("expected nil for missing blob, got %v", err)
	}
}

func TestDiskStore_RejectsUnsupportedFormat(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "http://x/uploads")
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	for _, name := range []string{"script.exe", "page.html", "noext"} {
		if _, err := store.Upload(context.Background(), name, strings.NewReader("x")); err != ErrUnsupportedFormat {
			t.Errorf("Upload(%q): expected ErrUnsupportedFormat, got %v", name, err)
		}
	}
}

func TestDiskStore_UploadsGetUniqueNames(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "http://x/uploads")
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	u1, err := store.Upload(context.Background(), "same.jpg", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	u2, err := store.Upload(context.Background(), "same.jpg", strings.NewReader("b"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if u1 == u2 {
		t.Fatalf("expected distinct object names, got %q twice", u1)
	}
}
