package audit

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/doeshing/agentgate/internal/domain"
)

func sampleRecord(session, message string, offset time.Duration) domain.AuditRecord {
	return domain.AuditRecord{
		Timestamp:  time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC).Add(offset),
		SessionID:  session,
		Message:    message,
		Domains:    []string{"inventory", "pricing"},
		Granted:    1,
		Denied:     1,
		Errored:    0,
		TraceSteps: 7,
		Answer:     "combined answer",
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s := NewSQLiteStore(t.TempDir())

	if err := s.Save(sampleRecord("sess-1", "basketball stock", 0)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(sampleRecord("sess-2", "margin report", time.Minute)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	records, err := s.Records(0, "")
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Message != "margin report" {
		t.Fatalf("records not newest first: %q", records[0].Message)
	}

	rec := records[1]
	if rec.SessionID != "sess-1" || rec.Granted != 1 || rec.Denied != 1 || rec.TraceSteps != 7 {
		t.Fatalf("record fields lost: %+v", rec)
	}
	if len(rec.Domains) != 2 || rec.Domains[0] != "inventory" {
		t.Fatalf("domains lost: %v", rec.Domains)
	}
}

func TestSQLiteStoreSearchAndLimit(t *testing.T) {
	s := NewSQLiteStore(t.TempDir())
	for i, message := range []string{"basketball stock", "margin report", "basketball restock"} {
		if err := s.Save(sampleRecord("sess", message, time.Duration(i)*time.Minute)); err != nil {
			t.Fatal(err)
		}
	}

	matches, err := s.Records(0, "basketball")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 {
		t.Fatalf("search returned %d records, want 2", len(matches))
	}

	limited, err := s.Records(1, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 || limited[0].Message != "basketball restock" {
		t.Fatalf("limit returned %+v", limited)
	}
}

func TestSQLiteStoreClearAndExport(t *testing.T) {
	dir := t.TempDir()
	s := NewSQLiteStore(dir)
	if err := s.Save(sampleRecord("sess", "hello", 0)); err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(dir, "export.jsonl")
	if err := s.ExportJSON(dest); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	file, err := os.Open(dest)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	lines := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines++
	}
	if lines != 1 {
		t.Fatalf("export has %d lines, want 1", lines)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	records, err := s.Records(0, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Fatalf("%d records survived Clear", len(records))
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	f := NewFileStore(t.TempDir())

	if err := f.Save(sampleRecord("sess-1", "first", 0)); err != nil {
		t.Fatal(err)
	}
	if err := f.Save(sampleRecord("sess-2", "second", time.Minute)); err != nil {
		t.Fatal(err)
	}

	records, err := f.Records(0, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[0].Message != "second" {
		t.Fatalf("records = %+v", records)
	}

	matches, err := f.Records(0, "first")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("search returned %d records", len(matches))
	}

	if err := f.Clear(); err != nil {
		t.Fatal(err)
	}
	records, err = f.Records(0, "")
	if err != nil {
		t.Fatal(err)
	}
	if records != nil {
		t.Fatalf("records after Clear = %+v", records)
	}
}

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	f := NewFileStore(t.TempDir())
	records, err := f.Records(0, "")
	if err != nil {
		t.Fatal(err)
	}
	if records != nil {
		t.Fatalf("records = %+v", records)
	}
}
