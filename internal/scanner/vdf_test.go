package scanner

import (
	"strings"
	"testing"
)

const sampleACF = `"AppState"
{
	"appid"		"220"
	"name"		"Half-Life 2"
	"StateFlags"		"4"
	"installdir"		"Half-Life 2"
	"InstalledDepots"
	{
		"221"
		{
			"manifest"		"1"
		}
	}
}
`

func TestParseVDFUnwrapsRootBlock(t *testing.T) {
	node, err := parseVDF(strings.NewReader(sampleACF))
	if err != nil {
		t.Fatalf("parseVDF failed: %v", err)
	}
	if got := node.value("appid"); got != "220" {
		t.Errorf("appid = %q, want 220", got)
	}
	if got := node.value("name"); got != "Half-Life 2" {
		t.Errorf("name = %q, want Half-Life 2", got)
	}
	if got := node.value("installdir"); got != "Half-Life 2" {
		t.Errorf("installdir = %q", got)
	}
	depots := node.child("installeddepots")
	if depots == nil {
		t.Fatal("expected InstalledDepots child block")
	}
	if depots.child("221") == nil {
		t.Error("expected nested depot block")
	}
}

func TestParseVDFKeysAreCaseInsensitive(t *testing.T) {
	node, err := parseVDF(strings.NewReader(`"Root" { "AppID" "42" }`))
	if err != nil {
		t.Fatalf("parseVDF failed: %v", err)
	}
	if got := node.value("appid"); got != "42" {
		t.Errorf("appid = %q, want 42", got)
	}
}

func TestParseVDFLibraryFolders(t *testing.T) {
	input := `"libraryfolders"
{
	"0"
	{
		"path"		"/home/user/.steam/steam"
	}
	"1"
	{
		"path"		"/mnt/games/SteamLibrary"
	}
}
`
	node, err := parseVDF(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseVDF failed: %v", err)
	}
	keys := node.childKeys()
	if len(keys) != 2 {
		t.Fatalf("expected 2 library folders, got %d", len(keys))
	}
	if got := node.child("1").value("path"); got != "/mnt/games/SteamLibrary" {
		t.Errorf("path = %q", got)
	}
}

func TestParseVDFEscapesAndComments(t *testing.T) {
	input := `"root"
{
	// client-written comment
	"path"		"C:\\Games\\Steam"
}
`
	node, err := parseVDF(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseVDF failed: %v", err)
	}
	if got := node.value("path"); got != `C:\Games\Steam` {
		t.Errorf("path = %q", got)
	}
}

func TestParseVDFRejectsMalformedInput(t *testing.T) {
	cases := []string{
		`"key"`,
		`{ "a" "b" }`,
		`"root" { "a" "b"`,
		`"unterminated`,
	}
	for _, input := range cases {
		if _, err := parseVDF(strings.NewReader(input)); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}
