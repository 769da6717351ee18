// SPDX-License-Identifier: MPL-2.0

package bundleconf

import (
	_ "embed"

	"github.com/jsbundle/jsbundle/pkg/cueutil"
)

//go:embed bundleconf_schema.cue
var cueSchema []byte

func decodeCUE(data []byte, name string) (*Document, error) {
	raw, err := cueutil.ParseAndDecode[rawDocument](cueSchema, data, "#BundleConfig",
		cueutil.WithFilename(name),
		cueutil.WithMaxFileSize(int64(len(data))),
	)
	if err != nil {
		return nil, err
	}
	return raw.document(), nil
}
