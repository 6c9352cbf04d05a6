package xerrors

import (
	"errors"
	"testing"
)

func TestWrap(t *testing.T) {
	if err := Wrap(nil, "context"); err != nil {
		t.Errorf("Wrap(nil) = %v，期望 nil", err)
	}

	base := errors.New("base error")
	wrapped := Wrap(base, "read cursor")
	if wrapped.Error() != "read cursor: base error" {
		t.Errorf("Wrap(err).Error() = %q", wrapped.Error())
	}
	if !errors.Is(wrapped, base) {
		t.Error("errors.Is(wrapped, base) = false，期望 true")
	}
}

func TestWrapf(t *testing.T) {
	if err := Wrapf(nil, "table %s", "widget"); err != nil {
		t.Errorf("Wrapf(nil) = %v，期望 nil", err)
	}

	wrapped := Wrapf(ErrNotFound, "table %s", "widget")
	if wrapped.Error() != "table widget: not found" {
		t.Errorf("Wrapf(err).Error() = %q", wrapped.Error())
	}
	if !Is(wrapped, ErrNotFound) {
		t.Error("Wrapf 应保留哨兵错误")
	}
}

func TestWithCode(t *testing.T) {
	if err := WithCode(nil, "CODE"); err != nil {
		t.Errorf("WithCode(nil) = %v，期望 nil", err)
	}

	coded := WithCode(ErrInvalidInput, "range_must_be_positive")
	if coded.Error() != "[range_must_be_positive] invalid input" {
		t.Errorf("WithCode(err).Error() = %q", coded.Error())
	}
	if code := GetCode(coded); code != "range_must_be_positive" {
		t.Errorf("GetCode(coded) = %q", code)
	}

	// 外层再包装后仍能取到错误码
	wrapped := Wrap(coded, "invalid config")
	if code := GetCode(wrapped); code != "range_must_be_positive" {
		t.Errorf("GetCode(wrapped) = %q", code)
	}
	if !Is(wrapped, ErrInvalidInput) {
		t.Error("errors.Is(wrapped, ErrInvalidInput) = false")
	}

	if code := GetCode(errors.New("plain")); code != "" {
		t.Errorf("GetCode(plain) = %q，期望空字符串", code)
	}
}

func TestCombine(t *testing.T) {
	if err := Combine(nil, nil); err != nil {
		t.Errorf("Combine(nil, nil) = %v，期望 nil", err)
	}

	e1 := errors.New("first")
	if err := Combine(nil, e1); err != e1 {
		t.Errorf("Combine 单个错误应原样返回，得到 %v", err)
	}

	e2 := errors.New("second")
	err := Combine(e1, nil, e2)
	if err.Error() != "first (and 1 more errors)" {
		t.Errorf("Combine(e1, e2).Error() = %q", err.Error())
	}
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Error("MultiError 应同时匹配所有子错误")
	}
}
