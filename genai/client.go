// Package genai wraps the hosted image-generation service behind a single
// call contract. Callers treat any non-success as a recoverable per-item
// failure; this package never decides batch semantics.
package genai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

type (
	DesignRequest struct {
		Prompt string
		Style  string
		Font   string
	}

	MockupRequest struct {
		Design    []byte
		MIMEType  string
		Product   string
		Style     string
		Color     string
		Gender    string
		Ethnicity string
		Age       string
		Scene     string
	}

	EditRequest struct {
		Image       []byte
		MIMEType    string
		Instruction string
	}

	AnalyzedText struct {
		Text      string `json:"text"`
		IsPetName bool   `json:"isPetName"`
	}

	AnalyzedPet struct {
		Description string `json:"description"`
	}

	Analysis struct {
		Texts []AnalyzedText `json:"texts"`
		Pets  []AnalyzedPet  `json:"pets"`
	}

	ListingRequest struct {
		DesignURL string
		Platform  string
	}

	// ListingDraftText is the generated copy for a marketplace listing.
	ListingDraftText struct {
		Title          string   `json:"title"`
		Description    string   `json:"description"`
		Tags           []string `json:"tags"`
		SuggestedPrice float64  `json:"suggestedPrice"`
	}
)

// Generator is the consumed capability: one call per design variation, per
// analysis, per edit, and per mockup color.
type Generator interface {
	GenerateDesign(ctx context.Context, req DesignRequest) (string, error)
	GenerateMockup(ctx context.Context, req MockupRequest) (string, error)
	AnalyzeDesign(ctx context.Context, image []byte, mimeType string) (*Analysis, error)
	EditDesign(ctx context.Context, req EditRequest) (string, error)
	GenerateListing(ctx context.Context, req ListingRequest) (*ListingDraftText, error)
}

// Client talks to Gemini.
type Client struct {
	apiKey     string
	imageModel string
	textModel  string
}

// NewClient reads GEMINI_API_KEY from the environment. A missing key is a
// warning, not a failure: every call will then return an error the handlers
// surface per item.
func NewClient() *Client {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		logrus.Warn("GEMINI_API_KEY is not set. Generation calls will fail.")
	}
	imageModel := os.Getenv("GEMINI_IMAGE_MODEL")
	if imageModel == "" {
		imageModel = "gemini-2.5-flash-image"
	}
	textModel := os.Getenv("GEMINI_TEXT_MODEL")
	if textModel == "" {
		textModel = "gemini-2.0-flash-exp"
	}
	return &Client{
		apiKey:     apiKey,
		imageModel: imageModel,
		textModel:  textModel,
	}
}

// GenerateDesign produces one design variation and returns its image URL.
func (c *Client) GenerateDesign(ctx context.Context, req DesignRequest) (string, error) {
	prompt := designPrompt(req)
	return c.generateImage(ctx, designSystemInstruction, genai.Text(prompt))
}

// GenerateMockup places the design onto a product photo for one color.
func (c *Client) GenerateMockup(ctx context.Context, req MockupRequest) (string, error) {
	prompt := mockupPrompt(req)
	return c.generateImage(ctx, mockupSystemInstruction,
		genai.Blob{MIMEType: req.MIMEType, Data: req.Design},
		genai.Text(prompt))
}

// AnalyzeDesign extracts the text fragments and pet descriptions present in
// a design image.
func (c *Client) AnalyzeDesign(ctx context.Context, image []byte, mimeType string) (*Analysis, error) {
	client, err := c.newClient(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	model := client.GenerativeModel(c.textModel)
	resp, err := model.GenerateContent(ctx,
		genai.Blob{MIMEType: mimeType, Data: image},
		genai.Text(analyzePrompt))
	if err != nil {
		return nil, fmt.Errorf("failed to analyze design: %w", err)
	}

	text, err := firstText(resp)
	if err != nil {
		return nil, err
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(stripMarkdownFences(text)), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse analysis response: %w", err)
	}
	return &analysis, nil
}

// EditDesign applies an edit instruction to an existing design image.
func (c *Client) EditDesign(ctx context.Context, req EditRequest) (string, error) {
	return c.generateImage(ctx, editSystemInstruction,
		genai.Blob{MIMEType: req.MIMEType, Data: req.Image},
		genai.Text(req.Instruction))
}

// GenerateListing drafts marketplace listing copy for a design.
func (c *Client) GenerateListing(ctx context.Context, req ListingRequest) (*ListingDraftText, error) {
	client, err := c.newClient(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	model := client.GenerativeModel(c.textModel)
	resp, err := model.GenerateContent(ctx, genai.Text(listingPrompt(req)))
	if err != nil {
		return nil, fmt.Errorf("failed to generate listing: %w", err)
	}

	text, err := firstText(resp)
	if err != nil {
		return nil, err
	}

	var draft ListingDraftText
	if err := json.Unmarshal([]byte(stripMarkdownFences(text)), &draft); err != nil {
		return nil, fmt.Errorf("failed to parse listing response: %w", err)
	}
	return &draft, nil
}

func (c *Client) newClient(ctx context.Context) (*genai.Client, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not configured")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return client, nil
}

// generateImage runs an image-model call and returns the first image part as
// a data URL.
func (c *Client) generateImage(ctx context.Context, system string, parts ...genai.Part) (string, error) {
	client, err := c.newClient(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel(c.imageModel)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	model.SetTemperature(0.7)

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini")
	}

	for _, part := range candidate.Content.Parts {
		if blob, ok := part.(genai.Blob); ok {
			return fmt.Sprintf("data:%s;base64,%s", blob.MIMEType,
				base64.StdEncoding.EncodeToString(blob.Data)), nil
		}
	}
	return "", fmt.Errorf("no image returned from Gemini")
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini")
	}
	if txt, ok := candidate.Content.Parts[0].(genai.Text); ok {
		return string(txt), nil
	}
	return "", fmt.Errorf("unexpected response format from Gemini")
}

func stripMarkdownFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
