package importer

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"dancehub/pkg/models"
)

type stubSource struct {
	name  string
	songs []models.Song
	err   error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) FetchAll(_ context.Context) ([]models.Song, error) {
	return s.songs, s.err
}

func TestFetchAndMergeDedupes(t *testing.T) {
	primary := &stubSource{name: "primary", songs: []models.Song{
		{MapName: "boombox", Title: "Boombox Anthem", Artist: "Aya", JDVersion: 2024, Tags: []string{"NEW"}},
		{MapName: "neon", Title: "Neon Nights"},
	}}
	secondary := &stubSource{name: "secondary", songs: []models.Song{
		{MapName: "boombox", Title: "Wrong Title", Artist: "Wrong", JDVersion: 1999, Tags: []string{"Chill"}},
		{MapName: "neon", Artist: "Bruno", JDVersion: 2023},
		{MapName: "extra", Title: "Extra", Artist: "Carmen", JDVersion: 2022},
	}}

	got, err := NewAggregator(primary, secondary).FetchAndMerge(context.Background())
	if err != nil {
		t.Fatalf("fetch and merge: %v", err)
	}

	want := []models.Song{
		{MapName: "boombox", Title: "Boombox Anthem", Artist: "Aya", JDVersion: 2024, Tags: []string{"Chill", "NEW"}},
		{MapName: "extra", Title: "Extra", Artist: "Carmen", JDVersion: 2022},
		{MapName: "neon", Title: "Neon Nights", Artist: "Bruno", JDVersion: 2023},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("merged = %+v, want %+v", got, want)
	}
}

func TestFetchAndMergeToleratesFailingSource(t *testing.T) {
	good := &stubSource{name: "good", songs: []models.Song{
		{MapName: "song1", Title: "One"},
	}}
	broken := &stubSource{name: "broken", err: errors.New("mirror unreachable")}

	got, err := NewAggregator(broken, good).FetchAndMerge(context.Background())
	if err != nil {
		t.Fatalf("fetch and merge: %v", err)
	}
	if len(got) != 1 || got[0].MapName != "song1" {
		t.Fatalf("merged = %+v, want the good source's song", got)
	}
}

func TestFetchAndMergeSkipsBlankMapNames(t *testing.T) {
	src := &stubSource{name: "local", songs: []models.Song{
		{MapName: "   ", Title: "Ghost"},
		{MapName: " trimmed ", Title: "Trimmed"},
	}}

	got, err := NewAggregator(src).FetchAndMerge(context.Background())
	if err != nil {
		t.Fatalf("fetch and merge: %v", err)
	}
	if len(got) != 1 || got[0].MapName != "trimmed" {
		t.Fatalf("merged = %+v, want just the trimmed entry", got)
	}
}

func TestDecodeBundleShapes(t *testing.T) {
	asMap := []byte(`{"boombox": {"mapName": "boombox", "title": "Boombox Anthem"}}`)
	asList := []byte(`[{"mapName": "boombox", "title": "Boombox Anthem"}]`)

	for _, tc := range []struct {
		name string
		in   []byte
	}{
		{"map keyed by map name", asMap},
		{"flat list", asList},
	} {
		t.Run(tc.name, func(t *testing.T) {
			songs, err := decodeBundle(tc.in)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(songs) != 1 || songs[0].MapName != "boombox" {
				t.Fatalf("decoded = %+v", songs)
			}
		})
	}

	if _, err := decodeBundle([]byte(`"nope"`)); err == nil {
		t.Fatal("scalar JSON must not decode as a bundle")
	}
}
