// Utilities for parsing cURL commands.
//
// Admin endpoints on the song-request backend are guarded by a browser
// session cookie. Copying the request as cURL from the browser's network
// panel and feeding the file to the CLI lets admin commands reuse that
// session without a separate login flow.
package shared

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"
)

// SessionHeaders represents headers and the session cookie parsed from a cURL command.
type SessionHeaders struct {
	Headers map[string]string
	Cookie  string
}

// ParseCurlFile reads a .sh file containing a cURL command and extracts headers.
func ParseCurlFile(filepath string) (*SessionHeaders, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}

	return ParseCurlCommand(content)
}

// ParseCurlCommand parses a cURL command string and extracts headers.
//
// Handles both -H 'Cookie: ...' and -b '...' cookie forms.
func ParseCurlCommand(data []byte) (*SessionHeaders, error) {
	curlCmd := string(data)
	curlCmd = strings.ReplaceAll(curlCmd, "\\\n", " ")
	curlCmd = strings.ReplaceAll(curlCmd, "\\", "")

	headers := make(map[string]string)
	var cookie string

	headerRegex := regexp.MustCompile(`-H\s+'([^']+)'|-H\s+"([^"]+)"`)
	matches := headerRegex.FindAllStringSubmatch(curlCmd, -1)

	for _, match := range matches {
		headerLine := match[1]
		if headerLine == "" {
			headerLine = match[2]
		}

		parts := strings.SplitN(headerLine, ":", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if strings.EqualFold(key, "cookie") {
			cookie = value
		} else {
			headers[key] = value
		}
	}

	cookieRegex := regexp.MustCompile(`-b\s+'([^']+)'|-b\s+"([^"]+)"`)
	if cookieMatches := cookieRegex.FindStringSubmatch(curlCmd); len(cookieMatches) > 1 {
		if cookieMatches[1] != "" {
			cookie = cookieMatches[1]
		} else {
			cookie = cookieMatches[2]
		}
	}

	if len(headers) == 0 && cookie == "" {
		return nil, fmt.Errorf("no headers found in curl command")
	}

	return &SessionHeaders{Headers: headers, Cookie: cookie}, nil
}

// SaveHeaders persists parsed session headers to a JSON file so later CLI
// invocations can reuse the session.
func SaveHeaders(headers *SessionHeaders, path string) error {
	data, err := json.MarshalIndent(headers, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session headers: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// LoadHeaders reads session headers previously written by [SaveHeaders].
func LoadHeaders(path string) (*SessionHeaders, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var headers SessionHeaders
	if err := json.Unmarshal(data, &headers); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	return &headers, nil
}

// Apply copies the parsed headers and cookie onto an outgoing request.
func (s *SessionHeaders) Apply(req *http.Request) {
	for key, value := range s.Headers {
		req.Header.Set(key, value)
	}
	if s.Cookie != "" {
		req.Header.Set("Cookie", s.Cookie)
	}
}
