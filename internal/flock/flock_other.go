//go:build !unix

package flock

import (
	"errors"
	"os"
)

func tryLockFile(*os.File) error { return errors.ErrUnsupported }

func unlockFile(*os.File) error { return errors.ErrUnsupported }
