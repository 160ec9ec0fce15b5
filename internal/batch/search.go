package batch

import (
	"fmt"
	"os"
	"path/filepath"
)

// searchDirs builds the ["./", $BUILD, $SOURCE] path from spec §4.7,
// skipping any directory the caller left empty.
func searchDirs(buildDir, sourceDir string) []string {
	dirs := []string{"./"}
	if buildDir != "" {
		dirs = append(dirs, buildDir)
	}
	if sourceDir != "" {
		dirs = append(dirs, sourceDir)
	}
	return dirs
}

// resolveBinary locates a test binary by trying, in order, name+"-t" then
// name+".t" across dirs. The first existing regular file wins; a miss in
// every directory/suffix combination is fatal per spec §4.7.
func resolveBinary(name string, dirs []string) (string, error) {
	for _, dir := range dirs {
		for _, suffix := range []string{"-t", ".t"} {
			candidate := filepath.Join(dir, name+suffix)
			info, err := os.Stat(candidate)
			if err != nil {
				continue
			}
			if info.Mode().IsRegular() {
				return candidate, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s", ErrTestNotFound, name)
}
