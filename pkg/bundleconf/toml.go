// SPDX-License-Identifier: MPL-2.0

package bundleconf

import (
	"bytes"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

func decodeTOML(data []byte) (*Document, error) {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var raw rawDocument
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode TOML: %w", err)
	}
	return raw.document(), nil
}
