package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

func postJSON(serverURL, path string, payload interface{}, target interface{}) int {
	body, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}

	resp, err := http.Post(serverURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			panic(err)
		}
	}

	return resp.StatusCode
}

func ExampleRouter_GetPing() {
	server := setupTestRouter(nil)
	defer server.Close()

	resp, err := http.Get(server.URL + "/ping")
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()

	fmt.Println("Status Code:", resp.StatusCode)

	// Output:
	// Status Code: 200
}

func ExampleRouter_PostApiusers() {
	server := setupTestRouter(nil)
	defer server.Close()

	var created struct {
		Username string `json:"username"`
		ID       string `json:"id"`
	}
	status := postJSON(server.URL, "/api/users", map[string]string{"username": "fcc_test"}, &created)

	fmt.Println("Status Code:", status)
	fmt.Println("Username:", created.Username)
	fmt.Println("Has ID:", created.ID != "")

	// Output:
	// Status Code: 201
	// Username: fcc_test
	// Has ID: true
}

func ExampleRouter_PostApiusersExercises() {
	server := setupTestRouter(nil)
	defer server.Close()

	var usr struct {
		ID string `json:"id"`
	}
	postJSON(server.URL, "/api/users", map[string]string{"username": "runner"}, &usr)

	form := url.Values{
		"description": {"morning run"},
		"duration":    {"30"},
		"date":        {"2024-01-01"},
	}
	resp, err := http.Post(
		server.URL+"/api/users/"+usr.ID+"/exercises",
		"application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()

	var created struct {
		Date        string  `json:"date"`
		Duration    float64 `json:"duration"`
		Description string  `json:"description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		panic(err)
	}

	fmt.Println("Status Code:", resp.StatusCode)
	fmt.Println(created.Date, created.Duration, created.Description)

	// Output:
	// Status Code: 201
	// Mon Jan 01 2024 30 morning run
}

func ExampleRouter_GetApiusersLogs() {
	server := setupTestRouter(nil)
	defer server.Close()

	var usr struct {
		ID string `json:"id"`
	}
	postJSON(server.URL, "/api/users", map[string]string{"username": "walker"}, &usr)

	for _, date := range []string{"2024-01-20", "2024-01-05", "2024-02-01"} {
		postJSON(
			server.URL,
			"/api/users/"+usr.ID+"/exercises",
			map[string]string{"description": "walk", "duration": "15", "date": date},
			nil,
		)
	}

	resp, err := http.Get(server.URL + "/api/users/" + usr.ID + "/logs?from=2024-01-01&to=2024-01-31")
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()

	var log struct {
		Count int `json:"count"`
		Log   []struct {
			Date string `json:"date"`
		} `json:"log"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&log); err != nil {
		panic(err)
	}

	fmt.Println("Count:", log.Count)
	for _, entry := range log.Log {
		fmt.Println(entry.Date)
	}

	// Output:
	// Count: 2
	// Fri Jan 05 2024
	// Sat Jan 20 2024
}
