package server

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/diagramlab/diagram-tools-mcp/internal/drawio"
	"github.com/diagramlab/diagram-tools-mcp/internal/element"
	"github.com/diagramlab/diagram-tools-mcp/internal/evaluate"
	"github.com/diagramlab/diagram-tools-mcp/internal/geometry"
	"github.com/diagramlab/diagram-tools-mcp/internal/imaging"
	"github.com/diagramlab/diagram-tools-mcp/internal/pipeline"
	"github.com/diagramlab/diagram-tools-mcp/internal/refine"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "diagram_detect", "diagram_refine").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images from cache as needed
//  4. Calls the appropriate pipeline/refine/evaluate function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Detection and refinement
	case "diagram_detect":
		return s.handleDiagramDetect(args)
	case "diagram_refine":
		return s.handleDiagramRefine(args)

	// Evaluation
	case "diagram_evaluate":
		return s.handleDiagramEvaluate(args)
	case "diagram_evaluate_batch":
		return s.handleDiagramEvaluateBatch(args)

	// Layering and export
	case "diagram_layer_order":
		return s.handleDiagramLayerOrder(args)
	case "diagram_export_drawio":
		return s.handleDiagramExportDrawio(args)
	case "diagram_merge_drawio":
		return s.handleDiagramMergeDrawio(args)

	// Image utilities
	case "image_load":
		return s.handleImageLoad(args)
	case "image_crop":
		return s.handleImageCrop(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Detection Handlers ===

type diagramDetectArgs struct {
	Path              string  `json:"path"`
	MinShapeArea      int     `json:"min_shape_area"`
	MinArrowLength    int     `json:"min_arrow_length"`
	MinTextConfidence float64 `json:"min_text_confidence"`
	EdgeThreshold     float64 `json:"edge_threshold"`
}

type diagramDetectResult struct {
	element.DetectionSet
	Relationships []pipeline.Relationship `json:"relationships,omitempty"`
}

func (s *Server) handleDiagramDetect(args json.RawMessage) (interface{}, error) {
	var a diagramDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	p := *s.pipeline
	if a.MinShapeArea != 0 {
		p.MinShapeArea = a.MinShapeArea
	}
	if a.MinArrowLength != 0 {
		p.MinArrowLength = a.MinArrowLength
	}
	if a.MinTextConfidence != 0 {
		p.MinTextConfidence = a.MinTextConfidence
	}
	if a.EdgeThreshold != 0 {
		p.EdgeThreshold = a.EdgeThreshold
	}

	set, err := p.Detect(context.Background(), a.Path)
	if err != nil {
		return nil, err
	}

	return diagramDetectResult{
		DetectionSet:  set,
		Relationships: pipeline.ConnectedArrows(set),
	}, nil
}

// === Refinement Handlers ===

type diagramRefineArgs struct {
	SourceImage       string            `json:"source_image"`
	Elements          []element.Element `json:"elements"`
	MinConfidence     *float64          `json:"min_confidence"`
	MinElementSize    *float64          `json:"min_element_size"`
	MergeIoUThreshold *float64          `json:"merge_iou_threshold"`
	DedupIoUThreshold *float64          `json:"dedup_iou_threshold"`
}

func (s *Server) handleDiagramRefine(args json.RawMessage) (interface{}, error) {
	var a diagramRefineArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	// Pointer fields distinguish "absent" from an explicit zero, so a
	// caller can turn a filter off.
	opts := refine.DefaultOptions()
	if a.MinConfidence != nil {
		opts.MinConfidence = *a.MinConfidence
	}
	if a.MinElementSize != nil {
		opts.MinElementSize = *a.MinElementSize
	}
	if a.MergeIoUThreshold != nil {
		opts.MergeIoUThreshold = *a.MergeIoUThreshold
	}
	if a.DedupIoUThreshold != nil {
		opts.DedupIoUThreshold = *a.DedupIoUThreshold
	}

	set := element.DetectionSet{SourceImage: a.SourceImage, Elements: a.Elements}
	return refine.Refine(set, opts), nil
}

// === Evaluation Handlers ===

type diagramEvaluateArgs struct {
	Predictions         []element.Element `json:"predictions"`
	GroundTruth         []element.Element `json:"ground_truth"`
	IoUThreshold        float64           `json:"iou_threshold"`
	ConfidenceThreshold float64           `json:"confidence_threshold"`
}

func (a *diagramEvaluateArgs) options() evaluate.Options {
	opts := evaluate.DefaultOptions()
	if a.IoUThreshold != 0 {
		opts.IoUThreshold = a.IoUThreshold
	}
	if a.ConfidenceThreshold != 0 {
		opts.ConfidenceThreshold = a.ConfidenceThreshold
	}
	return opts
}

func (s *Server) handleDiagramEvaluate(args json.RawMessage) (interface{}, error) {
	var a diagramEvaluateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	pred := element.DetectionSet{Elements: a.Predictions}
	gt := element.DetectionSet{Elements: a.GroundTruth}
	return evaluate.Evaluate(pred, gt, a.options()), nil
}

type diagramEvaluateBatchArgs struct {
	Predictions         [][]element.Element `json:"predictions"`
	GroundTruths        [][]element.Element `json:"ground_truths"`
	IoUThreshold        float64             `json:"iou_threshold"`
	ConfidenceThreshold float64             `json:"confidence_threshold"`
}

func (s *Server) handleDiagramEvaluateBatch(args json.RawMessage) (interface{}, error) {
	var a diagramEvaluateBatchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	single := diagramEvaluateArgs{
		IoUThreshold:        a.IoUThreshold,
		ConfidenceThreshold: a.ConfidenceThreshold,
	}

	preds := make([]element.DetectionSet, len(a.Predictions))
	for i, els := range a.Predictions {
		preds[i] = element.DetectionSet{Elements: els}
	}
	gts := make([]element.DetectionSet, len(a.GroundTruths))
	for i, els := range a.GroundTruths {
		gts[i] = element.DetectionSet{Elements: els}
	}

	return evaluate.EvaluateBatch(preds, gts, single.options())
}

// === Layering and Export Handlers ===

type diagramLayerOrderArgs struct {
	Elements []element.Element `json:"elements"`
}

type layeredElement struct {
	element.Element
	LayerRank int `json:"layer_rank"`
}

func (s *Server) handleDiagramLayerOrder(args json.RawMessage) (interface{}, error) {
	var a diagramLayerOrderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	ordered := element.SortForCompositing(a.Elements)
	out := make([]layeredElement, len(ordered))
	for i, e := range ordered {
		out[i] = layeredElement{Element: e, LayerRank: element.LayerRank(e.Category)}
	}
	return out, nil
}

type diagramExportDrawioArgs struct {
	SourceImage string            `json:"source_image"`
	Elements    []element.Element `json:"elements"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	OutputPath  string            `json:"output_path"`
}

type drawioResult struct {
	XML        string `json:"xml"`
	OutputPath string `json:"output_path,omitempty"`
	CellCount  int    `json:"cell_count"`
}

func (s *Server) handleDiagramExportDrawio(args json.RawMessage) (interface{}, error) {
	var a diagramExportDrawioArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Width == 0 {
		a.Width = 800
	}
	if a.Height == 0 {
		a.Height = 600
	}

	set := element.DetectionSet{SourceImage: a.SourceImage, Elements: a.Elements}
	doc, err := drawio.Export(set, a.Width, a.Height)
	if err != nil {
		return nil, err
	}

	result := drawioResult{XML: string(doc), CellCount: len(a.Elements)}
	if a.OutputPath != "" {
		if err := os.WriteFile(a.OutputPath, doc, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write output file: %w", err)
		}
		result.OutputPath = a.OutputPath
	}
	return result, nil
}

type diagramMergeDrawioArgs struct {
	Paths      []string `json:"paths"`
	OutputPath string   `json:"output_path"`
}

func (s *Server) handleDiagramMergeDrawio(args json.RawMessage) (interface{}, error) {
	var a diagramMergeDrawioArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	docs := make([][]byte, len(a.Paths))
	for i, path := range a.Paths {
		doc, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		docs[i] = doc
	}

	merged, err := drawio.Merge(docs)
	if err != nil {
		return nil, err
	}

	n, err := drawio.CellCount(merged)
	if err != nil {
		return nil, err
	}

	result := drawioResult{XML: string(merged), CellCount: n}
	if a.OutputPath != "" {
		if err := os.WriteFile(a.OutputPath, merged, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write output file: %w", err)
		}
		result.OutputPath = a.OutputPath
	}
	return result, nil
}

// === Image Utility Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadInfo(s.cache, a.Path)
}

type imageCropArgs struct {
	Path   string  `json:"path"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Scale  float64 `json:"scale"`
}

func (s *Server) handleImageCrop(args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	box := geometry.Box{X: a.X, Y: a.Y, Width: a.Width, Height: a.Height}
	return imaging.CropEncoded(img, box, a.Scale)
}
