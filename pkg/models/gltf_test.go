package models

import (
	"errors"
	"testing"
)

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestGLTFLoaderCreation(t *testing.T) {
	loader := NewGLTFLoader()
	if loader == nil {
		t.Fatal("NewGLTFLoader returned nil")
	}
	if !loader.SmoothNormals {
		t.Error("SmoothNormals should default to true")
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := Load("scene.fbx")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load(.fbx) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestReadFloatsOverrun(t *testing.T) {
	buf := make([]byte, 20)
	if _, err := readFloats(buf, 3, 0, 0, 2); err == nil {
		t.Error("two VEC3 elements need 24 bytes, expected overrun error")
	}
	got, err := readFloats(buf, 3, 0, 0, 1)
	if err != nil {
		t.Fatalf("one VEC3 in 20 bytes: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d elements, want 1", len(got))
	}
}
