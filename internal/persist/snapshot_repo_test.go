package persist

import (
	"bytes"
	"testing"
)

func TestDigest(t *testing.T) {
	a := Digest([]byte(`{"actorStates":[]}`))
	b := Digest([]byte(`{"actorStates":[]}`))
	c := Digest([]byte(`{"actorStates":[{"uuid":"x"}]}`))
	if len(a) != 32 {
		t.Fatalf("digest length = %d, want 32", len(a))
	}
	if !bytes.Equal(a, b) {
		t.Error("same content, different digests")
	}
	if bytes.Equal(a, c) {
		t.Error("different content, same digest")
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrations.ReadDir("migrations")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) == 0 {
		t.Fatal("no migrations embedded")
	}
	raw, err := migrations.ReadFile("migrations/" + entries[0].Name())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(raw, []byte("-- +goose Up")) || !bytes.Contains(raw, []byte("-- +goose Down")) {
		t.Errorf("%s lacks goose annotations", entries[0].Name())
	}
}
