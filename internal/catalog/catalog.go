// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog holds the static content shown on the gallery and
// generator pages: ready-made animation examples, their categories, and
// the example prompts offered to new users.
package catalog

import "code2motion/internal/animation"

// CategoryAll is the pseudo-category that disables gallery filtering.
const CategoryAll = "all"

// Category is one gallery filter button.
type Category struct {
	ID    string
	Label string
}

// Example is a single gallery entry.
type Example struct {
	ID          int
	Title       string
	Description string
	Category    string
	Tags        []string
	Likes       int
	HTML        string // preview markup using the classes defined in CSS
	CSS         string
}

// Animation returns the example as a previewable animation.
func (e Example) Animation() animation.Animation {
	return animation.Animation{HTML: e.HTML, CSS: e.CSS, Description: e.Description}
}

var categories = []Category{
	{ID: CategoryAll, Label: "All"},
	{ID: "buttons", Label: "Buttons"},
	{ID: "loaders", Label: "Loaders"},
	{ID: "text", Label: "Text"},
	{ID: "cards", Label: "Cards"},
	{ID: "navigation", Label: "Navigation"},
}

var examples = []Example{
	{
		ID:          1,
		Title:       "Glow Button Hover",
		Description: "A button that glows and scales on hover with smooth transitions",
		Category:    "buttons",
		Tags:        []string{"hover", "glow", "scale"},
		Likes:       127,
		HTML:        `<button class="glow-button">Hover me!</button>`,
		CSS: `.glow-button {
  padding: 12px 24px;
  background: linear-gradient(135deg, #8b5cf6, #06b6d4);
  color: white;
  border: none;
  border-radius: 12px;
  transition: all 0.3s ease;
}
.glow-button:hover {
  transform: scale(1.05);
  box-shadow: 0 20px 40px rgba(139, 92, 246, 0.6);
}`,
	},
	{
		ID:          2,
		Title:       "Typewriter Effect",
		Description: "Text appears character by character with a blinking cursor",
		Category:    "text",
		Tags:        []string{"typewriter", "text", "cursor"},
		Likes:       89,
		HTML:        `<div class="typewriter">Typing effect...</div>`,
		CSS: `.typewriter {
  overflow: hidden;
  border-right: 3px solid #8b5cf6;
  white-space: nowrap;
  animation: typing 3s steps(40), blink 0.75s infinite;
}
@keyframes typing {
  from { width: 0 }
  to { width: 100% }
}
@keyframes blink {
  50% { border-color: transparent }
}`,
	},
	{
		ID:          3,
		Title:       "Floating Cards",
		Description: "Cards that gently float up and down with subtle shadows",
		Category:    "cards",
		Tags:        []string{"float", "shadow", "smooth"},
		Likes:       156,
		HTML:        `<div class="floating-card"><span></span></div>`,
		CSS: `.floating-card {
  animation: float 3s ease-in-out infinite;
  box-shadow: 0 10px 30px rgba(0,0,0,0.1);
}
@keyframes float {
  0%, 100% { transform: translateY(0) }
  50% { transform: translateY(-10px) }
}`,
	},
	{
		ID:          4,
		Title:       "Ripple Loading",
		Description: "Expanding circles that create a ripple effect for loading states",
		Category:    "loaders",
		Tags:        []string{"loading", "ripple", "pulse"},
		Likes:       203,
		HTML:        `<div class="ripple-loader"></div>`,
		CSS: `.ripple-loader {
  position: relative;
  width: 40px;
  height: 40px;
}
.ripple-loader::after {
  content: '';
  position: absolute;
  border: 2px solid #8b5cf6;
  border-radius: 50%;
  animation: ripple 1.5s infinite;
}
@keyframes ripple {
  to { transform: scale(2); opacity: 0; }
}`,
	},
	{
		ID:          5,
		Title:       "Slide-in Navigation",
		Description: "Menu items slide in from the left with staggered timing",
		Category:    "navigation",
		Tags:        []string{"slide", "stagger", "menu"},
		Likes:       134,
		HTML:        `<ul class="slide-nav"><li>Home</li><li>Gallery</li><li>About</li></ul>`,
		CSS: `.slide-nav li {
  transform: translateX(-100%);
  animation: slideIn 0.5s forwards;
}
.slide-nav li:nth-child(2) { animation-delay: 0.1s; }
.slide-nav li:nth-child(3) { animation-delay: 0.2s; }
@keyframes slideIn {
  to { transform: translateX(0); }
}`,
	},
	{
		ID:          6,
		Title:       "Morphing Button",
		Description: "Button that smoothly transforms its shape and color on interaction",
		Category:    "buttons",
		Tags:        []string{"morph", "transform", "interactive"},
		Likes:       91,
		HTML:        `<button class="morph-button">Hover me!</button>`,
		CSS: `.morph-button {
  border-radius: 25px;
  transition: all 0.4s cubic-bezier(0.175, 0.885, 0.32, 1.275);
}
.morph-button:hover {
  border-radius: 8px;
  background: linear-gradient(45deg, #ff6b6b, #4ecdc4);
  transform: scale(1.1) rotate(-2deg);
}`,
	},
}

var examplePrompts = []string{
	"A smooth hover effect that scales a button and adds a glow",
	"A loading spinner with rotating circles in a modern style",
	"A slide-in animation for navigation menu items with stagger",
	"A floating card effect with subtle shadow and movement",
	"A typewriter text animation that reveals characters one by one",
	"A morphing button that transforms on click with color change",
}

// Categories returns the gallery filter buttons, "all" first.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Examples returns every gallery entry in display order.
func Examples() []Example {
	out := make([]Example, len(examples))
	copy(out, examples)
	return out
}

// Filter returns the examples in the given category. An empty category or
// CategoryAll returns everything; an unknown category returns nothing.
func Filter(category string) []Example {
	if category == "" || category == CategoryAll {
		return Examples()
	}
	var out []Example
	for _, e := range examples {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

// IsCategory reports whether id names one of the filter buttons.
func IsCategory(id string) bool {
	for _, c := range categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// ExamplePrompts returns the suggestions listed next to the generator input.
func ExamplePrompts() []string {
	out := make([]string, len(examplePrompts))
	copy(out, examplePrompts)
	return out
}
