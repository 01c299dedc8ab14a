// © 2026 Robin Language Authors
//
// SPDX-License-Identifier: Apache-2.0

package iter

import (
	"bufio"
	"context"
	"errors"
	"io"
	"unicode/utf8"

	"gopkg.robinlang.org/robinc/internal/lang"
	"gopkg.robinlang.org/robinc/internal/optional"
)

// NewUnicodeFileBody converts a FileBody into an iterator of code points.
func NewUnicodeFileBody(b lang.FileBody) lang.Iterator[lang.CodePoint] {
	return NewUnicodeFileBodyCtx(context.Background(), b)
}

// NewUnicodeFileBodyCtx is the same as NewUnicodeFileBody but uses the given
// context for all read operations for cancellation or other purposes.
func NewUnicodeFileBodyCtx(ctx context.Context, b lang.FileBody) lang.Iterator[lang.CodePoint] {
	return newFileBody(ctx, b)
}

type fileBody struct {
	readCloser io.ReadCloser
	scanner    *bufio.Scanner
}

func newFileBody(ctx context.Context, r lang.FileBody) *fileBody {
	rc := &fileBodyIO{
		ctx:  ctx,
		body: r,
	}
	scanner := bufio.NewScanner(rc)
	scanner.Split(bufio.ScanRunes)
	return &fileBody{
		readCloser: rc,
		scanner:    scanner,
	}
}

func (f *fileBody) Next(ctx context.Context) optional.Optional[lang.CodePoint] {
	ok := f.scanner.Scan()
	if !ok {
		return optional.None[lang.CodePoint]()
	}
	r, _ := utf8.DecodeRune(f.scanner.Bytes())
	return optional.Some(lang.CodePoint(r))
}

func (f *fileBody) Close(context.Context) error {
	_ = f.readCloser.Close()
	err := f.scanner.Err()
	if err != nil {
		return err
	}
	return nil
}

type fileBodyIO struct {
	ctx  context.Context
	body lang.FileBody
}

func (b *fileBodyIO) Read(p []byte) (int, error) {
	buf, err := b.body.Read(b.ctx, int32(len(p)))
	if err != nil && !errors.Is(err, io.EOF) {
		return len(buf), err
	}
	copy(p, buf)
	if errors.Is(err, io.EOF) {
		return len(buf), io.EOF
	}
	return len(buf), nil
}

func (b *fileBodyIO) Close() error {
	return b.body.Close(b.ctx)
}
