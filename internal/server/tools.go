package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// elementsSchema is the shared schema fragment for a list of detected
// elements, as produced by diagram_detect and consumed by the refinement,
// evaluation, layering, and export tools.
func elementsSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"description": description,
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"id":       map[string]interface{}{"type": "string"},
				"category": map[string]interface{}{
					"type": "string",
					"enum": []string{"background", "image", "shape", "icon", "text", "arrow"},
				},
				"bbox": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"x":      map[string]interface{}{"type": "number"},
						"y":      map[string]interface{}{"type": "number"},
						"width":  map[string]interface{}{"type": "number"},
						"height": map[string]interface{}{"type": "number"},
					},
					"required": []string{"x", "y", "width", "height"},
				},
				"confidence": map[string]interface{}{"type": "number"},
				"content":    map[string]interface{}{"type": "string"},
				"metadata":   map[string]interface{}{"type": "object"},
			},
			"required": []string{"id", "category", "bbox", "confidence"},
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Detection and refinement
		{
			Name:        "diagram_detect",
			Description: "Detect diagram elements (background, shapes, arrows, icons, pictures, text regions) in an image, refine the raw detections, and report arrow connectivity.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"min_shape_area": map[string]interface{}{
						"type":        "integer",
						"description": "Smallest shape bounding-box area in px². Default 400",
					},
					"min_arrow_length": map[string]interface{}{
						"type":        "integer",
						"description": "Shortest arrow/line segment in px. Default 30",
					},
					"min_text_confidence": map[string]interface{}{
						"type":        "number",
						"description": "Confidence floor for text region proposals. Default 0.4",
					},
					"edge_threshold": map[string]interface{}{
						"type":        "number",
						"description": "Gradient magnitude cutoff for edge detection. Default 30",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "diagram_refine",
			Description: "Refine a list of detected elements: drop low-confidence and undersized detections, merge overlapping boxes, and remove near-duplicates.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"source_image": map[string]interface{}{
						"type":        "string",
						"description": "Path of the image the elements came from (carried through to the result)",
					},
					"elements": elementsSchema("Elements to refine"),
					"min_confidence": map[string]interface{}{
						"type":        "number",
						"description": "Confidence floor; lower-scoring elements are dropped. Default 0.3",
					},
					"min_element_size": map[string]interface{}{
						"type":        "number",
						"description": "Minimum width and height in px. Default 10",
					},
					"merge_iou_threshold": map[string]interface{}{
						"type":        "number",
						"description": "IoU at or above which overlapping elements merge. Default 0.5",
					},
					"dedup_iou_threshold": map[string]interface{}{
						"type":        "number",
						"description": "IoU above which elements count as duplicates. Default 0.9",
					},
				},
				"required": []string{"elements"},
			},
		},

		// Evaluation
		{
			Name:        "diagram_evaluate",
			Description: "Score predicted elements against ground truth: precision, recall, F1, true/false positive and false negative counts, and mean/median IoU over all prediction-truth pairs.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"predictions":  elementsSchema("Predicted elements"),
					"ground_truth": elementsSchema("Ground-truth elements"),
					"iou_threshold": map[string]interface{}{
						"type":        "number",
						"description": "Minimum IoU for a match to count as a true positive. Default 0.5",
					},
					"confidence_threshold": map[string]interface{}{
						"type":        "number",
						"description": "Predictions below this confidence are excluded from matching but still count as false positives. Default 0.5",
					},
				},
				"required": []string{"predictions", "ground_truth"},
			},
		},
		{
			Name:        "diagram_evaluate_batch",
			Description: "Evaluate several prediction/ground-truth pairs at once. Ratios and IoU statistics are averaged across pairs; true/false positive and false negative counts are summed.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"predictions": map[string]interface{}{
						"type":        "array",
						"description": "One predicted element list per image",
						"items":       elementsSchema("Predicted elements for one image"),
					},
					"ground_truths": map[string]interface{}{
						"type":        "array",
						"description": "One ground-truth element list per image, same length and order as predictions",
						"items":       elementsSchema("Ground-truth elements for one image"),
					},
					"iou_threshold": map[string]interface{}{
						"type":        "number",
						"description": "Minimum IoU for a true positive. Default 0.5",
					},
					"confidence_threshold": map[string]interface{}{
						"type":        "number",
						"description": "Confidence floor for matching. Default 0.5",
					},
				},
				"required": []string{"predictions", "ground_truths"},
			},
		},

		// Layering and export
		{
			Name:        "diagram_layer_order",
			Description: "Sort elements into compositing order (background, image, shape, icon, text, arrow) and annotate each with its layer rank. Unknown categories render as shapes.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"elements": elementsSchema("Elements to order"),
				},
				"required": []string{"elements"},
			},
		},
		{
			Name:        "diagram_export_drawio",
			Description: "Export elements as a draw.io XML document, layered in compositing order. Arrows with endpoint metadata become edges; everything else becomes a vertex.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"source_image": map[string]interface{}{
						"type":        "string",
						"description": "Path of the source image, recorded as the diagram id",
					},
					"elements": elementsSchema("Elements to export"),
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Page width in px. Default 800",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Page height in px. Default 600",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional file path to also write the document to",
					},
				},
				"required": []string{"elements"},
			},
		},
		{
			Name:        "diagram_merge_drawio",
			Description: "Merge several draw.io documents into one: element cells from every document are appended to the first document's page, in order.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"paths": map[string]interface{}{
						"type":        "array",
						"description": "Paths of the draw.io files to merge, base document first",
						"items":       map[string]interface{}{"type": "string"},
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional file path to also write the merged document to",
					},
				},
				"required": []string{"paths"},
			},
		},

		// Image utilities
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions. Caches the image for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_crop",
			Description: "Crop a rectangular region from an image and return it as base64-encoded PNG. Use this to inspect a detected element's region.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"x": map[string]interface{}{
						"type":        "number",
						"description": "Left edge X coordinate (0-based)",
					},
					"y": map[string]interface{}{
						"type":        "number",
						"description": "Top edge Y coordinate (0-based)",
					},
					"width": map[string]interface{}{
						"type":        "number",
						"description": "Region width in px",
					},
					"height": map[string]interface{}{
						"type":        "number",
						"description": "Region height in px",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 0.5 to halve size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "x", "y", "width", "height"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
