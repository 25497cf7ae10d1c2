// Package main implements a seed script that populates a running todoapp
// instance with a test admin account and a handful of todos, using the same
// HTTP API clients consume.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func httpPost(endpoint, token string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return http.DefaultClient.Do(req)
}

func login(baseURL, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	resp, err := http.Post(baseURL+"/auth/token",
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request: HTTP %d: %s", resp.StatusCode, string(raw))
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	return body.AccessToken, nil
}

func main() {
	baseURL := getEnv("TODOAPP_URL", "http://localhost:8080")
	username := getEnv("SEED_USERNAME", "MatthewTest")
	password := getEnv("SEED_PASSWORD", "testpassword123")

	resp, err := httpPost(baseURL+"/auth/", "", map[string]any{
		"username":     username,
		"email":        "matt@gmail.com",
		"first_name":   "Matthew",
		"last_name":    "Alexander",
		"password":     password,
		"role":         "admin",
		"phone_number": "+1-555-123-4567",
	})
	if err != nil {
		log.Fatalf("register: %v", err)
	}
	resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusCreated:
		log.Printf("created user %s", username)
	case http.StatusConflict:
		log.Printf("user %s already exists", username)
	default:
		log.Fatalf("register: HTTP %d", resp.StatusCode)
	}

	token, err := login(baseURL, username, password)
	if err != nil {
		log.Fatalf("login: %v", err)
	}

	todos := []map[string]any{
		{"title": "Buy groceries", "description": "Milk, bread, eggs", "priority": 3},
		{"title": "Walk the dog", "description": "Morning walk around the block", "priority": 2},
		{"title": "File taxes", "description": "Gather receipts and file online", "priority": 5},
	}
	for _, todo := range todos {
		resp, err := httpPost(baseURL+"/todos/", token, todo)
		if err != nil {
			log.Fatalf("create todo: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			log.Fatalf("create todo %q: HTTP %d", todo["title"], resp.StatusCode)
		}
		log.Printf("created todo %q", todo["title"])
	}

	log.Println("seed complete")
}
