package catalog

// Feature is a titled selling point.
type Feature struct {
	Title       string
	Description string
}

// Member is a team member shown on the about page.
type Member struct {
	Name string
	Role string
	Bio  string
}

// AboutFeatures returns the "Why Choose Code2Motion?" entries.
func AboutFeatures() []Feature {
	return []Feature{
		{"Production Ready", "All generated animations are optimized for real-world use. Clean, semantic code that follows best practices and works across all modern browsers."},
		{"AI Powered", "Our AI understands natural language and translates your creative ideas into professional web animations."},
		{"Developer Focused", "Built by developers, for developers. We understand the pain points and create solutions that actually improve your workflow."},
		{"Community Driven", "Join developers sharing animations, providing feedback, and pushing the boundaries of what's possible on the web."},
	}
}

// Team returns the about page team roster.
func Team() []Member {
	return []Member{
		{"Alex Chen", "AI Engineer", "Passionate about making AI accessible to developers worldwide."},
		{"Sarah Kim", "Frontend Architect", "10+ years crafting web experiences. Expert in CSS animations and modern frameworks."},
		{"Marcus Rodriguez", "Product Designer", "Design systems enthusiast who believes great tools should be intuitive and powerful."},
	}
}
