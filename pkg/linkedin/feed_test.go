// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package linkedin

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/tombee/linkpost/pkg/errors"
)

func TestReadLatest_ParsesElements(t *testing.T) {
	posts := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"elements": [
				{"id": "urn:li:share:2", "commentary": "newer post"},
				{"id": "urn:li:share:1", "commentary": "older post"}
			]
		}`)
	}

	c, _ := testClient(t, posts)

	entries, err := c.ReadLatest(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID() != "urn:li:share:2" {
		t.Errorf("unexpected first id %q", entries[0].ID())
	}
	if entries[0].Commentary() != "newer post" {
		t.Errorf("unexpected commentary %q", entries[0].Commentary())
	}
}

func TestReadLatest_QueryParameters(t *testing.T) {
	var query map[string][]string
	var contentType string
	posts := func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		contentType = r.Header.Get("Content-Type")
		io.WriteString(w, `{"elements":[]}`)
	}

	c, _ := testClient(t, posts)

	if _, err := c.ReadLatest(context.Background(), 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expect := map[string]string{
		"q":      "author",
		"author": "urn:li:person:AbC123",
		"count":  "5",
		"sortBy": "LAST_MODIFIED",
	}
	for k, want := range expect {
		if got := query[k]; len(got) != 1 || got[0] != want {
			t.Errorf("query %s = %v, want %q", k, got, want)
		}
	}
	if contentType != "" {
		t.Errorf("feed read must not send Content-Type, got %q", contentType)
	}
}

func TestReadLatest_CountFloor(t *testing.T) {
	var count string
	posts := func(w http.ResponseWriter, r *http.Request) {
		count = r.URL.Query().Get("count")
		io.WriteString(w, `{"elements":[]}`)
	}

	c, _ := testClient(t, posts)

	if _, err := c.ReadLatest(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != "1" {
		t.Errorf("expected count floored to 1, got %q", count)
	}
}

func TestReadLatest_ForbiddenIsNotAnError(t *testing.T) {
	posts := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"message":"Not enough permissions to access: partnerApiPostsExternal"}`)
	}

	c, _ := testClient(t, posts)

	entries, err := c.ReadLatest(context.Background(), 3)
	if err != nil {
		t.Fatalf("expected 403 to be tolerated, got %v", err)
	}
	if entries != nil {
		t.Errorf("expected nil entries on 403, got %v", entries)
	}
}

func TestReadLatest_OtherFailuresSurface(t *testing.T) {
	posts := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, "throttled")
	}

	c, _ := testClient(t, posts)

	_, err := c.ReadLatest(context.Background(), 3)

	var remote *errors.RemoteAPIError
	if !errors.As(err, &remote) {
		t.Fatalf("expected *errors.RemoteAPIError, got %T: %v", err, err)
	}
	if remote.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", remote.StatusCode)
	}
}
