package errors_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"

	svcErr "github.com/oggyb/lunchmatch/internal/errors"
)

func TestTranslate(t *testing.T) {
	assert.Nil(t, svcErr.Translate(nil))
	assert.ErrorIs(t, svcErr.Translate(gorm.ErrRecordNotFound), svcErr.ErrNotFound)
	assert.ErrorIs(t, svcErr.Translate(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)), svcErr.ErrConflict)
	assert.ErrorIs(t, svcErr.Translate(context.Canceled), context.Canceled)

	raw := errors.New("driver: bad connection")
	translated := svcErr.Translate(raw)
	assert.ErrorIs(t, translated, svcErr.ErrTransient)
	assert.ErrorIs(t, translated, raw)
	assert.NotContains(t, translated.Error(), "driver")
}

func TestMap(t *testing.T) {
	cases := []struct {
		err  error
		code codes.Code
	}{
		{svcErr.NotFound("user not found"), codes.NotFound},
		{svcErr.Unauthorized("not your photo"), codes.PermissionDenied},
		{svcErr.Conflict("dup"), codes.AlreadyExists},
		{svcErr.InvalidArgument("bad"), codes.InvalidArgument},
		{errors.New("boom"), codes.Internal},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{gorm.ErrRecordNotFound, codes.NotFound},
		{status.Error(codes.Unauthenticated, "no token"), codes.Unauthenticated},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, status.Code(svcErr.Map(tc.err)), "%v", tc.err)
	}
	assert.Nil(t, svcErr.Map(nil))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, svcErr.HTTPStatus(svcErr.NotFound("x")))
	assert.Equal(t, http.StatusForbidden, svcErr.HTTPStatus(svcErr.Unauthorized("x")))
	assert.Equal(t, http.StatusBadRequest, svcErr.HTTPStatus(svcErr.InvalidArgument("x")))
	assert.Equal(t, http.StatusInternalServerError, svcErr.HTTPStatus(errors.New("x")))
	assert.Equal(t, "temporary failure, please retry", svcErr.Message(errors.New("sql: secret detail")))
}
