package catalog

import (
	"strings"
	"testing"
)

func TestFilter(t *testing.T) {
	tests := []struct {
		category string
		want     int
	}{
		{"", 6},
		{CategoryAll, 6},
		{"buttons", 2},
		{"loaders", 1},
		{"text", 1},
		{"cards", 1},
		{"navigation", 1},
		{"sliders", 0},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			got := Filter(tt.category)
			if len(got) != tt.want {
				t.Fatalf("Filter(%q) returned %d examples, want %d", tt.category, len(got), tt.want)
			}
			for _, e := range got {
				if tt.category != "" && tt.category != CategoryAll && e.Category != tt.category {
					t.Errorf("example %q has category %q", e.Title, e.Category)
				}
			}
		})
	}
}

func TestExamplesAreWellFormed(t *testing.T) {
	seen := map[int]bool{}
	for _, e := range Examples() {
		if seen[e.ID] {
			t.Errorf("duplicate example id %d", e.ID)
		}
		seen[e.ID] = true

		if !IsCategory(e.Category) || e.Category == CategoryAll {
			t.Errorf("example %d: invalid category %q", e.ID, e.Category)
		}
		if e.Title == "" || e.Description == "" || e.HTML == "" || e.CSS == "" {
			t.Errorf("example %d has empty fields", e.ID)
		}
		// The preview markup must use a class the stylesheet defines.
		class := e.HTML[strings.Index(e.HTML, `class="`)+len(`class="`):]
		class = class[:strings.Index(class, `"`)]
		if !strings.Contains(e.CSS, "."+class) {
			t.Errorf("example %d: CSS does not style .%s", e.ID, class)
		}
	}
}

func TestExamplesReturnsCopy(t *testing.T) {
	got := Examples()
	got[0].Title = "changed"
	if Examples()[0].Title == "changed" {
		t.Error("Examples() exposed the package slice")
	}
}

func TestExampleAnimation(t *testing.T) {
	e := Examples()[0]
	a := e.Animation()
	if a.HTML != e.HTML || a.CSS != e.CSS || a.Description != e.Description {
		t.Errorf("Animation() = %+v", a)
	}
}

func TestCategoriesStartWithAll(t *testing.T) {
	cats := Categories()
	if len(cats) != 6 || cats[0].ID != CategoryAll {
		t.Fatalf("Categories() = %+v", cats)
	}
	if IsCategory("sliders") {
		t.Error("IsCategory(sliders) = true")
	}
}

func TestExamplePrompts(t *testing.T) {
	prompts := ExamplePrompts()
	if len(prompts) != 6 {
		t.Fatalf("got %d prompts, want 6", len(prompts))
	}
	for _, p := range prompts {
		if strings.TrimSpace(p) == "" || len(p) > 1000 {
			t.Errorf("unusable prompt %q", p)
		}
	}
}

func TestGeneratorShowcase(t *testing.T) {
	s := GeneratorShowcase()
	if !strings.Contains(s.HTML, "hover-glow-button") ||
		!strings.Contains(s.CSS, ".hover-glow-button:hover") ||
		!strings.Contains(s.React, "export default HoverGlowButton") {
		t.Errorf("unexpected showcase: %+v", s)
	}
}

func TestAboutContent(t *testing.T) {
	if n := len(AboutFeatures()); n != 4 {
		t.Errorf("AboutFeatures() has %d entries, want 4", n)
	}
	for _, m := range Team() {
		if m.Name == "" || m.Role == "" || m.Bio == "" {
			t.Errorf("incomplete member %+v", m)
		}
	}
}
