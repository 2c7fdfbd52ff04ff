package sandbox

import "path/filepath"

// ImageFor returns the image used to run the named interpreter. A custom
// image in config takes precedence.
func ImageFor(name string, config Config) string {
	if config.DockerImage != "" {
		return config.DockerImage
	}
	switch filepath.Base(name) {
	case "node", "nodejs":
		return "node:alpine"
	case "python", "python3":
		return "python:alpine"
	default:
		return "alpine:latest"
	}
}
