package solidity

import (
	"os"
	"regexp"
	"strings"
)

const PragmaSolidity = "pragma solidity "

var exactVersion = regexp.MustCompile(`^[\^=~]?\s*v?(\d+\.\d+\.\d+)$`)

// ExtractVersionFromFile returns the version constraint of the first
// `pragma solidity` line, or "" when there is none.
func ExtractVersionFromFile(file string) (string, error) {
	fileData, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	return ExtractVersionFromData(fileData), nil
}

func ExtractVersionFromData(fileData []byte) string {
	lines := strings.Split(string(fileData), "\n")
	for i := range lines {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, PragmaSolidity) {
			pre := strings.TrimPrefix(line, PragmaSolidity)
			return strings.TrimSpace(strings.TrimRight(pre, "; \t\r"))
		}
	}
	return ""
}

// PinnedVersion turns a constraint into a single compiler version. Only
// constraints naming one release (`0.8.19`, `^0.8.19`, `=0.8.19`, `~0.8.19`)
// resolve; ranges return "".
func PinnedVersion(constraint string) string {
	m := exactVersion.FindStringSubmatch(strings.TrimSpace(constraint))
	if m == nil {
		return ""
	}
	return m[1]
}
