// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package animation

import (
	"strings"
	"testing"
)

func TestExtract_ExactJSON(t *testing.T) {
	reply := `{"html":"<div>x</div>","css":".x{color:red}","description":"d"}`

	got, outcome := Extract(reply, "anything")
	if outcome != Parsed {
		t.Fatalf("outcome: got %v, want parsed", outcome)
	}
	if got.HTML != "<div>x</div>" {
		t.Errorf("HTML: got %q", got.HTML)
	}
	if got.CSS != ".x{color:red}" {
		t.Errorf("CSS: got %q", got.CSS)
	}
	if got.Description != "d" {
		t.Errorf("Description: got %q, want %q", got.Description, "d")
	}
}

func TestExtract_JSONSurroundedByProse(t *testing.T) {
	reply := "Sure! Here is your animation:\n```json\n" +
		`{"html":"<span class=\"dot\"></span>","css":".dot{animation:spin 1s}","description":"spinning dot"}` +
		"\n```\nEnjoy."

	got, outcome := Extract(reply, "dot")
	if outcome != Parsed {
		t.Fatalf("outcome: got %v, want parsed", outcome)
	}
	if got.Description != "spinning dot" {
		t.Errorf("Description: got %q", got.Description)
	}
	if got.HTML != `<span class="dot"></span>` {
		t.Errorf("HTML: got %q", got.HTML)
	}
}

func TestExtract_NoBraces(t *testing.T) {
	prompt := "a glowing button"
	got, outcome := Extract("I cannot produce JSON today.", prompt)

	if outcome != NoMatch {
		t.Fatalf("outcome: got %v, want no_match", outcome)
	}
	if got.Description != "Animation based on: "+prompt {
		t.Errorf("Description: got %q", got.Description)
	}
	if !strings.Contains(got.HTML, prompt) {
		t.Errorf("fallback HTML should embed the prompt, got %q", got.HTML)
	}
	if !strings.Contains(got.CSS, "@keyframes pulse") {
		t.Errorf("no-match fallback should pulse, got %q", got.CSS)
	}
}

func TestExtract_GreedySpanFailsToParse(t *testing.T) {
	// Two objects: the greedy span covers both plus the prose between them.
	reply := `First {"html":"a"} and then {"css":"b"}`
	prompt := "two objects"

	got, outcome := Extract(reply, prompt)
	if outcome != Malformed {
		t.Fatalf("outcome: got %v, want malformed", outcome)
	}
	if got.Description != "Animation based on: "+prompt {
		t.Errorf("Description: got %q", got.Description)
	}
	if !strings.Contains(got.CSS, "@keyframes bounce") {
		t.Errorf("malformed fallback should bounce, got %q", got.CSS)
	}
}

func TestExtract_WrongFieldType(t *testing.T) {
	_, outcome := Extract(`{"html": 42, "css": "", "description": ""}`, "p")
	if outcome != Malformed {
		t.Errorf("outcome: got %v, want malformed", outcome)
	}
}

func TestExtract_MissingFieldsDecodeEmpty(t *testing.T) {
	got, outcome := Extract(`{"description":"only text"}`, "p")
	if outcome != Parsed {
		t.Fatalf("outcome: got %v, want parsed", outcome)
	}
	if got.HTML != "" || got.CSS != "" {
		t.Errorf("missing fields should be empty, got %+v", got)
	}
}

func TestFallbackIsDeterministic(t *testing.T) {
	a := Fallback("wave", NoMatch)
	b := Fallback("wave", NoMatch)
	if a != b {
		t.Error("Fallback must return the same animation for the same input")
	}
	if a.HTML != `<div class="custom-animation">wave</div>` {
		t.Errorf("HTML: got %q", a.HTML)
	}
}

func TestOutcomeString(t *testing.T) {
	cases := map[Outcome]string{Parsed: "parsed", NoMatch: "no_match", Malformed: "malformed", Outcome(9): "outcome(9)"}
	for o, want := range cases {
		if got := o.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(o), got, want)
		}
	}
}

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt("a rainbow trail")

	for _, want := range []string{
		`based on this description: "a rainbow trail"`,
		`"html": the HTML code`,
		`"css": the CSS code with animations`,
		`"description": brief description`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestPreview(t *testing.T) {
	a := Animation{HTML: `<div class="x">hi</div>`, CSS: ".x{color:red}", Description: "d"}
	got := string(Preview(a))

	for _, want := range []string{
		`<div class="preview-stage"><iframe class="preview-frame" sandbox=""`,
		`title="d"`,
		`&lt;style&gt;`,
		`.x{color:red}`,
		`&lt;div class=&#34;x&#34;&gt;hi&lt;/div&gt;`,
		`</iframe></div>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Preview missing %q in %s", want, got)
		}
	}
	if strings.Contains(got, "<style>") || strings.Contains(got, `<div class="x">`) {
		t.Errorf("Preview leaked raw markup into the host page: %s", got)
	}
}

func TestPreview_IsolatesConflictingRules(t *testing.T) {
	pulse := string(Preview(Fallback("spin", NoMatch)))
	bounce := string(Preview(Fallback("hop", Malformed)))

	// Both fallbacks style .custom-animation; each frame must carry only its own keyframes.
	if !strings.Contains(pulse, "@keyframes pulse") || strings.Contains(pulse, "@keyframes bounce") {
		t.Errorf("pulse preview has wrong rules: %s", pulse)
	}
	if !strings.Contains(bounce, "@keyframes bounce") || strings.Contains(bounce, "@keyframes pulse") {
		t.Errorf("bounce preview has wrong rules: %s", bounce)
	}
	for _, p := range []string{pulse, bounce} {
		if strings.Count(p, "<iframe") != 1 || strings.Contains(p, "<style>") {
			t.Errorf("preview not isolated in a single frame: %s", p)
		}
	}
}

func TestPreview_EmptyDescriptionTitle(t *testing.T) {
	got := string(Preview(Animation{HTML: "<i></i>"}))
	if !strings.Contains(got, `title="Animation preview"`) {
		t.Errorf("Preview title: %s", got)
	}
}

func TestDocument(t *testing.T) {
	a := Animation{HTML: `<b class="x">go</b>`, CSS: ".x{}", Description: `say "hi"`}
	doc := string(Document("Glow <Button>", a))

	if !strings.HasPrefix(doc, "<!DOCTYPE html>") {
		t.Error("document should start with a doctype")
	}
	if !strings.Contains(doc, "<title>Glow &lt;Button&gt;</title>") {
		t.Error("title should be escaped")
	}
	if !strings.Contains(doc, `content="say &#34;hi&#34;"`) {
		t.Errorf("description should be escaped, got %s", doc)
	}
	if !strings.Contains(doc, `<b class="x">go</b>`) || !strings.Contains(doc, ".x{}") {
		t.Error("document should embed markup and style verbatim")
	}
}
