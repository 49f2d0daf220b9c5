// Copyright 2025 walteh LLC
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

package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/walteh/procpad/pkg/log"
	"gitlab.com/tozd/go/errors"
)

func main() {
	setupLogging(false)
	ctx := zerolog.DefaultContextLogger.WithContext(context.Background())

	if err := loadDotEnv(ctx, ".env"); err != nil {
		log.New(os.Stderr, zerolog.Disabled).Error(err.Error())
		os.Exit(1)
	}

	rootCmd := newRootCmd(os.Stdout)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.New(os.Stderr, zerolog.Disabled).Errorf("%v", err)
		os.Exit(1)
	}
}

// loadDotEnv loads environment variables from path when it exists. Variables
// already set win.
func loadDotEnv(ctx context.Context, path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return errors.Errorf("loading %s: %w", path, err)
	}
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("loaded environment file")
	return nil
}
