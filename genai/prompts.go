package genai

import (
	"fmt"
	"strings"
)

const designSystemInstruction = `You are a master graphic designer creating stunning, professional designs for print-on-demand products (t-shirts, mugs, posters, etc.).

TYPOGRAPHY RULES:
- Hand-lettered, artistic text with personality and flow
- Varying text sizes for visual hierarchy and emphasis
- Curved, flowing baselines; decorative flourishes around text
- Depth through shadowing, outlines or dimensional effects

OUTPUT REQUIREMENTS:
- Create ONLY the flat graphic design/artwork
- NO products, NO mockups, NO scenes
- Transparent or solid color background
- High resolution, print-ready quality`

const mockupSystemInstruction = `You are an expert at creating photorealistic product mockups with perfect color contrast and visibility.

RULES:
- On dark products (black, navy, gray, dark red, dark blue) the design MUST stay highly visible
- Adjust design elements automatically for optimal contrast with the product surface
- Never let a design disappear or become hard to see on the product
- Keep accurate proportions, lighting and textures`

const editSystemInstruction = `You are a precise graphic design editor. Apply exactly the requested change to the provided design and nothing else. Preserve composition, style and all unrelated elements.`

const analyzePrompt = `Analyze this product design image. Identify every piece of text in the design and whether it looks like a pet's name, and describe any pets or animals depicted.

Return ONLY valid JSON of the shape:
{"texts":[{"text":"...","isPetName":false}],"pets":[{"description":"..."}]}`

var fontInstructions = map[string]string{
	"playfair":    "Use elegant, high-contrast serif fonts similar to Playfair Display with graceful letterforms",
	"bebas":       "Use bold, uppercase sans-serif fonts similar to Bebas Neue with strong, condensed characters",
	"pacifico":    "Use casual, flowing script fonts similar to Pacifico with smooth, brush-like strokes",
	"oswald":      "Use modern, clean sans-serif fonts similar to Oswald with slightly condensed proportions",
	"lobster":     "Use retro, bold script fonts similar to Lobster with vintage flair and personality",
	"montserrat":  "Use clean, geometric sans-serif fonts similar to Montserrat with excellent readability",
	"raleway":     "Use elegant, thin sans-serif fonts similar to Raleway with refined sophistication",
	"righteous":   "Use bold, display fonts similar to Righteous with strong presence and impact",
	"handwritten": "Use authentic hand-lettered style with organic, personal character and imperfect charm",
}

// darkColors need inverted, brightened designs to stay visible.
var darkColors = map[string]bool{
	"Black": true,
	"Navy":  true,
	"Gray":  true,
	"Red":   true,
	"Blue":  true,
}

var platformPrompts = map[string]string{
	"etsy": `You are an Etsy listing expert specializing in handmade and creative products. Write casual, personal, storytelling-focused listings, SEO-optimized with long-tail keywords. Title limit 140 characters; description 500-1000 words, conversational; 13 lowercase tags.`,
	"shopify": `You are an e-commerce copywriter for Shopify stores. Write professional, benefit-focused, scannable listings with strong CTAs. Title 60-70 characters; description 300-500 words with headings; 10-15 product tags.`,
	"printful": `You are a print-on-demand product specialist. Write technical, quality-focused listings covering materials, sizes and care instructions; mention made-to-order production. Title 100 characters max; description 400-600 words; 8-12 tags.`,
	"redbubble": `You are a Redbubble artist product specialist. Write artist-focused, design-centric listings for a creative audience. Title 100 characters; description 300-500 words; 15 tags max.`,
	"amazon": `You are an Amazon product listing specialist. Write keyword-heavy listings with five bullet-pointed key features, front-loading important terms. Title 200 characters; 7 backend search tags.`,
}

func designPrompt(req DesignRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a stunning %s style graphic design: %s\n\n", req.Style, req.Prompt)
	b.WriteString("Apply beautiful, artistic typography with hand-lettered text, flowing baselines and professional, print-ready quality.")
	if instruction, ok := fontInstructions[req.Font]; ok && req.Font != "none" {
		fmt.Fprintf(&b, "\n\nFONT REQUIREMENT: %s", instruction)
	}
	return b.String()
}

func mockupPrompt(req MockupRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a photorealistic product mockup: place the provided design on a %s %s in %s style.\n",
		req.Color, req.Product, req.Style)
	if req.Gender != "" || req.Ethnicity != "" || req.Age != "" {
		fmt.Fprintf(&b, "Model: %s %s %s.\n",
			strings.TrimSpace(req.Age), strings.TrimSpace(req.Ethnicity), strings.TrimSpace(req.Gender))
	}
	if req.Scene != "" {
		fmt.Fprintf(&b, "Scene: %s.\n", req.Scene)
	}
	b.WriteString("\n")
	b.WriteString(contrastInstructions(req.Color))
	return b.String()
}

func contrastInstructions(color string) string {
	if darkColors[color] {
		return fmt.Sprintf(`The product is %s (DARK COLOR). Convert dark design elements to white or light colors, add light outlines around text, and maximize contrast so the design pops off the dark %s surface. Visibility matters more than color accuracy.`, color, color)
	}
	return fmt.Sprintf("The product is %s. Maintain the design's original colors with clear visibility on the %s surface.", color, color)
}

func listingPrompt(req ListingRequest) string {
	system, ok := platformPrompts[req.Platform]
	if !ok {
		system = platformPrompts["etsy"]
	}
	return fmt.Sprintf(`%s

Design context: this is a t-shirt design for %s. The design image is at %s.

Generate a JSON response with:
- title: catchy product title
- description: compelling product description
- tags: array of relevant tags
- suggestedPrice: recommended price in USD

Return ONLY valid JSON, no markdown.`, system, req.Platform, req.DesignURL)
}
