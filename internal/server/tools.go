package server

// Tool is an entry in the tools/list response.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

// GetToolDefinitions describes every tool the server can run, with a JSON
// Schema for its arguments.
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "sky_detect",
			Description: "Detect the sky region of an outdoor photograph. Returns the day/night label, whether any sky was found, and the skyline row for every column. Optionally includes the sky mask as a base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the photograph"),
					"include_mask": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the binary sky mask (white = sky) as base64 PNG. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "sky_evaluate",
			Description: "Detect the sky in a photograph and score the predicted mask against a ground-truth mask (white = sky). Returns accuracy, precision, recall and the pixel confusion counts.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":      pathProperty("Absolute path to the photograph"),
					"mask_path": pathProperty("Absolute path to the ground-truth mask image, same size as the photograph"),
				},
				"required": []string{"path", "mask_path"},
			},
		},
		{
			Name:        "daynight_classify",
			Description: "Classify a photograph as Day or Night from its mean brightness.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the photograph"),
					"threshold": map[string]interface{}{
						"type":        "number",
						"description": "Optional mean intensity threshold (0-255). Defaults to the detector's configured threshold",
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return s.result(req.ID, map[string]interface{}{"tools": GetToolDefinitions()})
}
