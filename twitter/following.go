package twitter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// followingPrefix is the JS variable assignment that X data exports
// prepend to the JSON payload in following.js.
const followingPrefix = "window.YTD.following.part0 = "

// ParseFollowing reads an X data-export following.js stream and
// returns the followed numeric account IDs in file order.
func ParseFollowing(r io.Reader) ([]string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading following export: %w", err)
	}

	s := string(content)
	if !strings.HasPrefix(s, followingPrefix) {
		return nil, fmt.Errorf("not an X following.js export: expected prefix %q", followingPrefix)
	}

	var entries []struct {
		Following struct {
			AccountID string `json:"accountId"`
		} `json:"following"`
	}
	if err := json.Unmarshal([]byte(s[len(followingPrefix):]), &entries); err != nil {
		return nil, fmt.Errorf("parsing following export JSON: %w", err)
	}

	var ids []string
	for _, e := range entries {
		if e.Following.AccountID != "" {
			ids = append(ids, e.Following.AccountID)
		}
	}
	return ids, nil
}

// ParseFollowingFile reads account IDs from a following.js file.
func ParseFollowingFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening following export: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	return ParseFollowing(f)
}
