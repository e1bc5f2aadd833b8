package strtable

import (
	"errors"
	"strings"
	"testing"

	"ddrand/internal/fault"
)

const sample = `<?xml version="1.0" encoding="UTF-8"?>
<root>
	<language id="english">
		<entry id="combat_skill_name_crusader_smite"><![CDATA[Smite]]></entry>
		<entry id="upgrade_tree_name_crusader.smite">Smite &amp; Co</entry>
	</language>
	<language id="french">
		<entry id="combat_skill_name_crusader_smite"><![CDATA[Châtiment]]></entry>
	</language>
</root>
`

func TestText(t *testing.T) {
	table, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	tests := []struct {
		lang, id, want string
		ok             bool
	}{
		{"english", "combat_skill_name_crusader_smite", "Smite", true},
		{"english", "upgrade_tree_name_crusader.smite", "Smite & Co", true},
		{"french", "combat_skill_name_crusader_smite", "Châtiment", true},
		{"english", "missing", "", false},
		{"german", "combat_skill_name_crusader_smite", "", false},
	}
	for _, tt := range tests {
		got, ok := table.Text(tt.lang, tt.id)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Text(%q, %q) = %q, %v; expected %q, %v", tt.lang, tt.id, got, ok, tt.want, tt.ok)
		}
	}
}

func TestWith(t *testing.T) {
	table, _ := Parse([]byte(sample))

	next := table.With("english", "combat_skill_name_crusader_smite", "Lunge")
	next = next.With("english", "combat_skill_name_vestal_lunge", "Lunge")
	next = next.With("german", "x", "y]]>z")

	if got, _ := table.Text("english", "combat_skill_name_crusader_smite"); got != "Smite" {
		t.Fatalf("expected source unchanged, got %q", got)
	}
	if got, _ := next.Text("english", "combat_skill_name_crusader_smite"); got != "Lunge" {
		t.Fatalf("expected replaced text, got %q", got)
	}
	if got, _ := next.Text("english", "combat_skill_name_vestal_lunge"); got != "Lunge" {
		t.Fatalf("expected appended entry, got %q", got)
	}
	if got, _ := next.Text("german", "x"); got != "y]]>z" {
		t.Fatalf("expected escaped text to survive, got %q", got)
	}
	if langs := next.Languages(); len(langs) != 3 || langs[2] != "german" {
		t.Fatalf("unexpected languages: %v", langs)
	}
}

func TestApply(t *testing.T) {
	table, _ := Parse([]byte(sample))

	next := table.Apply([]Edit{
		{Lang: "english", ID: "combat_skill_name_crusader_smite", Text: "Lunge"},
		{Lang: "english", ID: "upgrade_tree_name_crusader.smite", Text: "Lunge"},
		{Lang: "english", ID: "combat_skill_name_crusader_smite", Text: "Holy Lance"},
		{Lang: "german", ID: "x", Text: "y"},
	})

	if got, _ := table.Text("english", "combat_skill_name_crusader_smite"); got != "Smite" {
		t.Fatalf("expected source unchanged, got %q", got)
	}
	if got, _ := next.Text("english", "combat_skill_name_crusader_smite"); got != "Holy Lance" {
		t.Fatalf("expected last edit to win, got %q", got)
	}
	if got, _ := next.Text("english", "upgrade_tree_name_crusader.smite"); got != "Lunge" {
		t.Fatalf("expected replaced text, got %q", got)
	}
	if got, _ := next.Text("german", "x"); got != "y" {
		t.Fatalf("expected appended language, got %q", got)
	}
	if empty := table.Apply(nil); len(empty.Languages()) != len(table.Languages()) {
		t.Fatalf("expected an unchanged copy for no edits, got %v", empty.Languages())
	}
}

func TestBytesRoundTrip(t *testing.T) {
	table, _ := Parse([]byte(sample))
	table = table.With("english", "combat_skill_name_crusader_smite", "Lunge")

	data, err := table.Bytes()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(string(data), "<![CDATA[Lunge]]>") {
		t.Fatalf("expected CDATA body, got %s", data)
	}
	again, err := Parse(data)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got, _ := again.Text("english", "upgrade_tree_name_crusader.smite"); got != "Smite & Co" {
		t.Fatalf("expected untouched entry preserved, got %q", got)
	}
}

func TestParseCorrupt(t *testing.T) {
	if _, err := Parse([]byte("<root><language")); !errors.Is(err, fault.ErrCorruptInput) {
		t.Fatalf("expected corrupt input, got %v", err)
	}
}
