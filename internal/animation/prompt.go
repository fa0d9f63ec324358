// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package animation

import "fmt"

// BuildPrompt wraps a user prompt in the fixed instruction text that asks
// the model for a JSON object with html, css and description fields.
func BuildPrompt(prompt string) string {
	return fmt.Sprintf(`You are an expert CSS animation developer. Create a complete CSS animation based on this description: "%s"

Please provide:
1. HTML structure (simple, semantic)
2. CSS with animations, keyframes, and beautiful styling
3. A brief description of the animation

Make it visually appealing, smooth, and creative. Use modern CSS features like transforms, transitions, and keyframes. Ensure the animation is fluid and eye-catching.

Format your response as JSON with these fields:
- "html": the HTML code
- "css": the CSS code with animations
- "description": brief description of what the animation does

Example format:
{
  "html": "<div class=\"animation-container\">...</div>",
  "css": ".animation-container { ... } @keyframes animationName { ... }",
  "description": "A smooth bouncing ball animation with elastic effects"
}`, prompt)
}
