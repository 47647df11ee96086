// Package generate exposes the generation endpoints. Every request is
// validated before any network call; the remote service is then invoked once
// per variation or color, and individual failures are isolated: the batch
// fails only when every sibling fails.
package generate

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"genmock-studio/core"
	"genmock-studio/genai"
	"genmock-studio/project"

	"github.com/go-chi/render"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

const (
	minPromptLen  = 3
	maxPromptLen  = 500
	maxVariations = 4
	maxUploadSize = 10 * 1024 * 1024
)

var validStyles = map[string]bool{
	"Modern":     true,
	"Vintage":    true,
	"Minimalist": true,
	"Abstract":   true,
	"Watercolor": true,
	"Typography": true,
}

type designRequest struct {
	Prompt     string `json:"prompt"`
	Style      string `json:"style"`
	Font       string `json:"font,omitempty"`
	Variations int    `json:"variations"`
	ProjectID  string `json:"projectId,omitempty"`
}

type designResponse struct {
	ProjectID string        `json:"projectId"`
	Designs   []core.Design `json:"designs"`
	Generated int           `json:"generated"`
	Failed    int           `json:"failed"`
}

// HandleGenerateDesign generates one design per requested variation. Results
// are applied in arrival order; sibling ordering is not guaranteed.
func HandleGenerateDesign(gen genai.Generator, projects *project.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req designRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid JSON in request body"})
			return
		}

		req.Prompt = sanitizePrompt(req.Prompt)
		if len(req.Prompt) < minPromptLen || len(req.Prompt) > maxPromptLen {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": fmt.Sprintf("Prompt must be %d-%d characters", minPromptLen, maxPromptLen)})
			return
		}
		if !validStyles[req.Style] {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Unsupported style"})
			return
		}
		if req.Variations < 1 {
			req.Variations = 1
		}
		if req.Variations > maxVariations {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": fmt.Sprintf("At most %d variations", maxVariations)})
			return
		}

		urls, failed := fanOut(req.Variations, func(i int) (string, error) {
			return gen.GenerateDesign(r.Context(), genai.DesignRequest{
				Prompt: req.Prompt,
				Style:  req.Style,
				Font:   req.Font,
			})
		})
		if len(urls) == 0 {
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, map[string]string{"error": "Design generation failed"})
			return
		}

		designs := make([]core.Design, len(urls))
		for i, url := range urls {
			designs[i] = core.Design{
				ID:        ulid.Make().String(),
				Name:      designName(req.Prompt, i),
				URL:       url,
				Style:     req.Style,
				CreatedAt: core.Now(),
			}
		}

		projectID := req.ProjectID
		if projectID != "" && projects.GetProject(projectID) != nil {
			projects.AddDesigns(r.Context(), projectID, designs)
		} else {
			p := projects.CreateProject(r.Context(), designs[0])
			projectID = p.ID
			if len(designs) > 1 {
				projects.AddDesigns(r.Context(), projectID, designs[1:])
			}
		}

		logrus.WithFields(logrus.Fields{
			"project_id": projectID,
			"generated":  len(urls),
			"failed":     failed,
		}).Info("Design batch finished")

		render.JSON(w, r, designResponse{
			ProjectID: projectID,
			Designs:   designs,
			Generated: len(urls),
			Failed:    failed,
		})
	}
}

type mockupResponse struct {
	ProjectID string        `json:"projectId"`
	Mockups   []core.Mockup `json:"mockups"`
	Generated int           `json:"generated"`
	Failed    int           `json:"failed"`
}

// HandleGenerateMockup generates one mockup per requested color and appends
// the successes to the project.
func HandleGenerateMockup(gen genai.Generator, projects *project.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		design, mimeType, ok := readUpload(w, r, "design")
		if !ok {
			return
		}

		product := strings.TrimSpace(r.FormValue("product"))
		style := strings.TrimSpace(r.FormValue("style"))
		colors := r.Form["colors"]
		if product == "" || style == "" || len(colors) == 0 {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Missing required fields"})
			return
		}
		projectID := r.FormValue("projectId")
		designID := r.FormValue("designId")

		type colorResult struct {
			url   string
			color string
		}
		results, failed := fanOutValues(colors, func(color string) (colorResult, error) {
			url, err := gen.GenerateMockup(r.Context(), genai.MockupRequest{
				Design:    design,
				MIMEType:  mimeType,
				Product:   product,
				Style:     style,
				Color:     color,
				Gender:    r.FormValue("gender"),
				Ethnicity: r.FormValue("ethnicity"),
				Age:       r.FormValue("age"),
				Scene:     r.FormValue("scene"),
			})
			return colorResult{url: url, color: color}, err
		})
		if len(results) == 0 {
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, map[string]string{"error": "Mockup generation failed"})
			return
		}

		mockups := make([]core.Mockup, len(results))
		for i, res := range results {
			mockups[i] = core.Mockup{
				ID:          ulid.Make().String(),
				DesignID:    designID,
				ProductType: product,
				Color:       res.color,
				URL:         res.url,
				CreatedAt:   core.Now(),
			}
		}
		projects.AddMockups(r.Context(), projectID, mockups)

		logrus.WithFields(logrus.Fields{
			"project_id": projectID,
			"generated":  len(results),
			"failed":     failed,
		}).Info("Mockup batch finished")

		render.JSON(w, r, mockupResponse{
			ProjectID: projectID,
			Mockups:   mockups,
			Generated: len(results),
			Failed:    failed,
		})
	}
}

// HandleAnalyzeDesign extracts text fragments and pet descriptions from an
// uploaded design.
func HandleAnalyzeDesign(gen genai.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		image, mimeType, ok := readUpload(w, r, "image")
		if !ok {
			return
		}

		analysis, err := gen.AnalyzeDesign(r.Context(), image, mimeType)
		if err != nil {
			logrus.WithError(err).Error("Failed to analyze design")
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, map[string]string{"error": "Failed to analyze image"})
			return
		}
		render.JSON(w, r, analysis)
	}
}

// HandleEditDesign applies an edit instruction to an uploaded design.
func HandleEditDesign(gen genai.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		image, mimeType, ok := readUpload(w, r, "image")
		if !ok {
			return
		}

		instruction := sanitizePrompt(r.FormValue("instruction"))
		if len(instruction) < minPromptLen || len(instruction) > maxPromptLen {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": fmt.Sprintf("Instruction must be %d-%d characters", minPromptLen, maxPromptLen)})
			return
		}

		url, err := gen.EditDesign(r.Context(), genai.EditRequest{
			Image:       image,
			MIMEType:    mimeType,
			Instruction: instruction,
		})
		if err != nil {
			logrus.WithError(err).Error("Failed to edit design")
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, map[string]string{"error": "Failed to edit image"})
			return
		}
		render.JSON(w, r, map[string]string{"imageUrl": url})
	}
}

type listingGenRequest struct {
	DesignURL string               `json:"designUrl"`
	Platform  core.IntegrationType `json:"platform"`
}

// HandleGenerateListing drafts listing copy for a design. The draft is
// returned to the caller; materializing it is the marketplace store's job.
func HandleGenerateListing(gen genai.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req listingGenRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid JSON in request body"})
			return
		}
		if req.DesignURL == "" || req.Platform == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "designUrl and platform are required"})
			return
		}

		draft, err := gen.GenerateListing(r.Context(), genai.ListingRequest{
			DesignURL: req.DesignURL,
			Platform:  string(req.Platform),
		})
		if err != nil {
			logrus.WithError(err).Error("Failed to generate listing")
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, map[string]string{"error": "Failed to generate listing"})
			return
		}
		render.JSON(w, r, draft)
	}
}

// fanOut runs n generation calls concurrently and returns the successful
// values in arrival order plus the failure count.
func fanOut(n int, call func(i int) (string, error)) ([]string, int) {
	indexes := make([]int, n)
	for i := range indexes {
		indexes[i] = i
	}
	return fanOutValues(indexes, func(i int) (string, error) {
		return call(i)
	})
}

func fanOutValues[In any, Out any](inputs []In, call func(In) (Out, error)) ([]Out, int) {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results []Out
		failed  int
	)
	for _, input := range inputs {
		wg.Add(1)
		go func(input In) {
			defer wg.Done()
			out, err := call(input)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				logrus.WithError(err).Warn("Generation call failed")
				return
			}
			results = append(results, out)
		}(input)
	}
	wg.Wait()
	return results, failed
}

// readUpload pulls a validated image upload out of a multipart form. On
// failure the error response has already been written.
func readUpload(w http.ResponseWriter, r *http.Request, field string) ([]byte, string, bool) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "Invalid multipart form"})
		return nil, "", false
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": fmt.Sprintf("Missing %s file", field)})
		return nil, "", false
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "File must be under 10MB"})
		return nil, "", false
	}
	mimeType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "File must be an image"})
		return nil, "", false
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"error": "Failed to read upload"})
		return nil, "", false
	}
	if len(data) > maxUploadSize {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "File must be under 10MB"})
		return nil, "", false
	}
	return data, mimeType, true
}

func sanitizePrompt(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "<", "")
	return strings.ReplaceAll(s, ">", "")
}

func designName(prompt string, i int) string {
	name := prompt
	if len(name) > 40 {
		name = strings.TrimSpace(name[:40])
	}
	if i > 0 {
		return fmt.Sprintf("%s (v%d)", name, i+1)
	}
	return name
}
