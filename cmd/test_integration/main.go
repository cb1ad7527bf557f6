package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

func baseURL() string {
	if u := os.Getenv("TEXTRANK_URL"); u != "" {
		return u
	}
	return "http://localhost:8080"
}

const article = `Graph-based ranking algorithms decide the importance of a vertex within a graph.
TextRank applies graph-based ranking to natural language texts.
Keyword extraction and sentence extraction both build a graph from the text.
The ranking algorithm runs until the scores of the graph converge.`

func main() {
	// Wait for server to start
	time.Sleep(2 * time.Second)

	fmt.Println("Starting Integration Test...")

	fmt.Println("1. Health...")
	if !sendRequest("GET", "/health", nil) {
		fmt.Println("FAILED: Health")
		os.Exit(1)
	}
	fmt.Println("PASSED: Health")

	fmt.Println("2. Keywords...")
	keywords := map[string]any{
		"text": article,
		"options": map[string]any{
			"selection": map[string]any{"mode": "count", "value": 5},
		},
	}
	if !sendRequest("POST", "/keywords", keywords) {
		fmt.Println("FAILED: Keywords")
		os.Exit(1)
	}
	fmt.Println("PASSED: Keywords")

	fmt.Println("3. Sentences...")
	sentences := map[string]any{
		"text": article,
		"options": map[string]any{
			"selection": map[string]any{"mode": "count", "value": 2, "order": "by_original_position"},
		},
	}
	if !sendRequest("POST", "/sentences", sentences) {
		fmt.Println("FAILED: Sentences")
		os.Exit(1)
	}
	fmt.Println("PASSED: Sentences")

	fmt.Println("4. Graph export...")
	graph := map[string]any{
		"text":    article,
		"persist": os.Getenv("MEMGRAPH_ENABLED") == "true",
	}
	if !sendRequest("POST", "/graph", graph) {
		fmt.Println("FAILED: Graph export")
		os.Exit(1)
	}
	fmt.Println("PASSED: Graph export")
}

func sendRequest(method, endpoint string, payload any) bool {
	var body io.Reader
	if payload != nil {
		jsonBytes, _ := json.Marshal(payload)
		body = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, baseURL()+endpoint, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return false
	}

	fmt.Printf("Response: %s\n", string(respBody))
	return true
}
