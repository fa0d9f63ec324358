package catalog

// Showcase is the sample output displayed on the public generator page
// before a visitor signs in. Each field is one tab of the code viewer.
type Showcase struct {
	CSS   string
	HTML  string
	React string
}

// GeneratorShowcase returns the hover-glow button sample.
func GeneratorShowcase() Showcase {
	return Showcase{
		CSS: `.hover-glow-button {
  padding: 12px 24px;
  background: linear-gradient(135deg, #8b5cf6, #06b6d4);
  color: white;
  border: none;
  border-radius: 12px;
  font-weight: 600;
  cursor: pointer;
  transition: all 0.3s cubic-bezier(0.4, 0, 0.2, 1);
  transform: translateY(0);
  box-shadow: 0 4px 15px rgba(139, 92, 246, 0.3);
}

.hover-glow-button:hover {
  transform: translateY(-2px) scale(1.05);
  box-shadow: 0 20px 40px rgba(139, 92, 246, 0.6);
  filter: brightness(1.1);
}

.hover-glow-button:active {
  transform: translateY(0) scale(0.98);
}`,
		HTML: `<button class="hover-glow-button">
  Hover me!
</button>`,
		React: `import React from 'react';
import './HoverGlowButton.css';

const HoverGlowButton = ({ children, onClick }) => {
  return (
    <button className="hover-glow-button" onClick={onClick}>
      {children}
    </button>
  );
};

export default HoverGlowButton;`,
	}
}
