package config

import _ "embed"

//go:embed defaults/pacnet.yaml
var defaultYAML []byte
