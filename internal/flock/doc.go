// Package flock provides an advisory cross-process lock on a sidecar file.
//
// arraydb uses it to enforce a single writer per database directory across
// processes. The lock is advisory: processes that do not take it are not
// excluded.
//
//	l := flock.New(dir + "/lock")
//	if err := l.Lock(ctx); err != nil {
//	    return err
//	}
//	defer l.Unlock()
//
// On platforms without flock(2) every lock operation returns
// errors.ErrUnsupported.
package flock
