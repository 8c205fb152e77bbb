package main

import (
	"fmt"
	"log"
	"os"

	"github.com/diagramlab/diagram-tools-mcp/internal/ocr"
	"github.com/diagramlab/diagram-tools-mcp/internal/server"
	"github.com/diagramlab/diagram-tools-mcp/internal/vision"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("diagram-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("diagram-tools-mcp - MCP server for diagram detection, refinement, and evaluation")
			fmt.Println()
			fmt.Println("Usage: diagram-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  DIAGRAM_MCP_LOG_LEVEL=debug    Enable debug logging")
			fmt.Println("  DIAGRAM_MCP_OLLAMA_URL         Ollama server for text recognition (e.g., http://localhost:11434)")
			fmt.Println("  DIAGRAM_MCP_VISION_MODEL       Vision model name (default llava)")
			fmt.Println("  DIAGRAM_MCP_OCR_LANGUAGE       Fall back to local Tesseract OCR with this language (e.g., eng)")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	logLevel := os.Getenv("DIAGRAM_MCP_LOG_LEVEL")
	if logLevel == "debug" {
		log.Printf("Diagram MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	srv := server.New()

	// Text recognition is optional: without an Ollama endpoint or a local
	// Tesseract install, detected text elements keep empty content.
	if ollamaURL := os.Getenv("DIAGRAM_MCP_OLLAMA_URL"); ollamaURL != "" {
		model := os.Getenv("DIAGRAM_MCP_VISION_MODEL")
		if model == "" {
			model = "llava"
		}
		recognizer, err := vision.NewClient(ollamaURL, model)
		if err != nil {
			log.Fatalf("Invalid DIAGRAM_MCP_OLLAMA_URL: %v", err)
		}
		srv.SetRecognizer(recognizer)
		if logLevel == "debug" {
			log.Printf("Text recognition enabled via %s (model %s)", ollamaURL, model)
		}
	} else if lang := os.Getenv("DIAGRAM_MCP_OCR_LANGUAGE"); lang != "" {
		srv.SetRecognizer(ocr.NewTesseract(lang))
		if logLevel == "debug" {
			log.Printf("Text recognition enabled via Tesseract (%s)", lang)
		}
	}

	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
