package server

import (
	"encoding/json"
	"fmt"

	"github.com/ironsheep/sky-region-detector/internal/daynight"
	"github.com/ironsheep/sky-region-detector/internal/eval"
	"github.com/ironsheep/sky-region-detector/internal/imaging"
)

// ToolCallParams are the params of a tools/call request.
type ToolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall runs a tool and wraps its JSON output in a single text
// content block. Tool failures are reported with codeToolFailed.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Warn().Err(err).Str("tool", params.Name).Msg("tool failed")
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	content, err := toolContent(result)
	if err != nil {
		s.log.Warn().Err(err).Str("tool", params.Name).Msg("failed to encode tool result")
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}
	return s.result(req.ID, content)
}

// toolContent wraps v, indented as JSON, in a single MCP text content block.
func toolContent(v interface{}) (map[string]interface{}, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool result: %w", err)
	}
	return map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": string(b)},
		},
	}, nil
}

func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "sky_detect":
		return s.handleSkyDetect(args)
	case "sky_evaluate":
		return s.handleSkyEvaluate(args)
	case "daynight_classify":
		return s.handleDayNightClassify(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse builds an error reply. An empty data string is omitted.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{Code: code, Message: message}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{JSONRPC: "2.0", ID: id, Error: e}
}

type imagePathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(a.Path)
}

// SkyDetectResult is the sky_detect tool output.
type SkyDetectResult struct {
	Width     int                   `json:"width"`
	Height    int                   `json:"height"`
	TimeOfDay daynight.Label        `json:"time_of_day"`
	NoSky     bool                  `json:"no_sky"`
	SkyPixels int                   `json:"sky_pixels"`
	Skyline   []int                 `json:"skyline"`
	RuntimeMS float64               `json:"runtime_ms"`
	Mask      *imaging.EncodedImage `json:"mask,omitempty"`
}

type skyDetectArgs struct {
	Path        string `json:"path"`
	IncludeMask bool   `json:"include_mask"`
}

func (s *Server) handleSkyDetect(args json.RawMessage) (interface{}, error) {
	var a skyDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := imaging.Open(a.Path)
	if err != nil {
		return nil, err
	}

	res := s.detector.Detect(img)
	out := &SkyDetectResult{
		Width:     res.Mask.Width,
		Height:    res.Mask.Height,
		TimeOfDay: res.TimeOfDay,
		NoSky:     res.NoSky,
		SkyPixels: res.Mask.Count(),
		Skyline:   res.Points,
		RuntimeMS: float64(res.Runtime.Microseconds()) / 1000,
	}
	if a.IncludeMask {
		if out.Mask, err = imaging.EncodePNG(res.Mask.Image()); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SkyEvaluateResult is the sky_evaluate tool output.
type SkyEvaluateResult struct {
	TimeOfDay daynight.Label `json:"time_of_day"`
	NoSky     bool           `json:"no_sky"`
	Metrics   eval.Metrics   `json:"metrics"`
	Confusion eval.Confusion `json:"confusion"`
}

type skyEvaluateArgs struct {
	Path     string `json:"path"`
	MaskPath string `json:"mask_path"`
}

func (s *Server) handleSkyEvaluate(args json.RawMessage) (interface{}, error) {
	var a skyEvaluateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := imaging.Open(a.Path)
	if err != nil {
		return nil, err
	}
	truth, err := eval.LoadGroundTruth(s.cache, a.MaskPath)
	if err != nil {
		return nil, err
	}

	res := s.detector.Detect(img)
	confusion, err := eval.Count(res.Mask, truth)
	if err != nil {
		return nil, err
	}
	return &SkyEvaluateResult{
		TimeOfDay: res.TimeOfDay,
		NoSky:     res.NoSky,
		Metrics: eval.Metrics{
			Accuracy:  confusion.Accuracy(),
			Precision: confusion.Precision(),
			Recall:    confusion.Recall(),
			Runtime:   res.Runtime,
		},
		Confusion: confusion,
	}, nil
}

// DayNightResult is the daynight_classify tool output.
type DayNightResult struct {
	Label         daynight.Label `json:"label"`
	MeanIntensity float64        `json:"mean_intensity"`
	Threshold     float64        `json:"threshold"`
}

type dayNightArgs struct {
	Path      string   `json:"path"`
	Threshold *float64 `json:"threshold,omitempty"`
}

func (s *Server) handleDayNightClassify(args json.RawMessage) (interface{}, error) {
	var a dayNightArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := imaging.Open(a.Path)
	if err != nil {
		return nil, err
	}

	threshold := s.detector.Config().DayThreshold
	if a.Threshold != nil {
		threshold = *a.Threshold
	}
	return &DayNightResult{
		Label:         daynight.NewClassifier(threshold).Classify(img),
		MeanIntensity: daynight.MeanIntensity(img),
		Threshold:     threshold,
	}, nil
}
