package walk

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/stylegraph/internal/devlog"
)

// LogLevelFlag is the persistent flag registered by the root command.
const LogLevelFlag = "log-level"

// NewLogger writes text logs to the command's stderr at the level given by
// --log-level, or warn when the flag is absent.
func NewLogger(cmd *cobra.Command) (*logrus.Logger, error) {
	levelName := logrus.WarnLevel.String()
	if flag := cmd.Flags().Lookup(LogLevelFlag); flag != nil {
		levelName = flag.Value.String()
	}

	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s %q: %w", LogLevelFlag, levelName, err)
	}

	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	logger.SetLevel(level)
	if hook := devlog.Hook(); hook != nil {
		logger.AddHook(hook)
	}
	return logger, nil
}
