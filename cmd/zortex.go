/*
Copyright © 2024 Ryan Painter paintersrp@gmail.com

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/Paintersrp/zortex/internal/config"
	"github.com/Paintersrp/zortex/internal/constants"
	"github.com/Paintersrp/zortex/internal/state"
	"github.com/Paintersrp/zortex/pkg/cmd/root"
	"github.com/Paintersrp/zortex/pkg/flags"
)

func Execute() {
	// Global flags feed the config layer, so read them before building state.
	fs := flags.PreParse(os.Args[1:])
	flags.BindGlobal(fs)

	override, _ := fs.GetString(flags.Workspace)

	s, err := state.NewState(override)
	if err != nil {
		var initErr *config.ConfigInitError
		if errors.As(err, &initErr) {
			fmt.Fprintf(os.Stderr, "%s\nRun once with --%s DIR or set %s_NOTES_DIR.\n",
				initErr, flags.NotesDir, constants.EnvPrefix)
		} else {
			fmt.Fprintf(os.Stderr, "%s: %v\n", constants.AppName, err)
		}
		os.Exit(1)
	}

	rootCmd, err := root.NewCmdRoot(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", constants.AppName, err)
		_ = s.Close()
		os.Exit(1)
	}

	execErr := rootCmd.Execute()
	if closeErr := s.Close(); closeErr != nil {
		s.Log.Warn("failed to close state", "error", closeErr)
	}
	if execErr != nil {
		os.Exit(1)
	}
}
