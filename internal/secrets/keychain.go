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

// Package secrets stores the LinkedIn access token in the system keychain:
// Keychain Access on macOS, Secret Service (GNOME Keyring, KWallet) on
// Linux, Credential Manager on Windows.
package secrets

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const (
	// service is the keychain service name for all linkpost entries.
	service = "linkpost"

	// tokenKey is the keychain entry holding the LinkedIn access token.
	tokenKey = "access-token"
)

// ErrNotFound is returned by GetToken when no token is stored.
var ErrNotFound = errors.New("secrets: no access token in keychain")

// SetToken stores the access token in the system keychain.
func SetToken(token string) error {
	return keyring.Set(service, tokenKey, token)
}

// GetToken retrieves the stored access token.
// Returns ErrNotFound when no entry exists.
func GetToken() (string, error) {
	token, err := keyring.Get(service, tokenKey)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return token, nil
}

// DeleteToken removes the stored access token. Deleting a token that does
// not exist is not an error.
func DeleteToken() error {
	err := keyring.Delete(service, tokenKey)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}
