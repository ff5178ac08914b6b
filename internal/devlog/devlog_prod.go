//go:build !dev

package devlog

import "github.com/sirupsen/logrus"

// Hook is nil outside dev builds.
func Hook() logrus.Hook {
	return nil
}
