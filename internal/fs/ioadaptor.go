// © 2026 Robin Language Authors
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"io"

	"gopkg.robinlang.org/robinc/internal/exc"
	"gopkg.robinlang.org/robinc/internal/lang"
)

func bodyFromIO(v io.ReadCloser) lang.FileBody {
	return &ioFileBody{rc: v}
}

type ioFileBody struct {
	rc io.ReadCloser
	b  []byte
}

func (f *ioFileBody) Read(ctx context.Context, size int32) ([]byte, error) {
	if len(f.b) < int(size) {
		f.b = make([]byte, size)
	}
	count, err := f.rc.Read(f.b[:size])
	if err != nil && err != io.EOF {
		return nil, exc.WrapUnknown(exc.Location{}, err)
	}
	if err == io.EOF {
		return f.b[:count], exc.Wrap(exc.Location{}, exc.CodeEOF, err)
	}
	return f.b[:count], nil
}

func (f *ioFileBody) Close(ctx context.Context) error {
	return f.rc.Close()
}
