// Package handler contains the HTTP handlers of the sandbox backend.
package handler

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"storefront/internal/domain/repository"
	"storefront/internal/errors"
	"storefront/internal/util"
)

const maxImageSize = 5 << 20

// bindAndValidate decodes the request into req and runs the registered validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Malformed request body")
	}

	return c.Validate(req)
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}

	return id, nil
}

func pageRequest(c echo.Context) repository.PageRequest {
	return repository.ParsePageRequest(c.QueryParams())
}

// readImage reads the multipart file part name into an Image.
func readImage(c echo.Context, name string) (repository.Image, error) {
	header, err := c.FormFile(name)
	if err != nil {
		return repository.Image{}, echo.NewHTTPError(http.StatusBadRequest, "Missing file part "+name)
	}
	if header.Size > maxImageSize {
		return repository.Image{}, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Image exceeds "+util.ByteSize(maxImageSize))
	}

	content, err := readPart(header)
	if err != nil {
		return repository.Image{}, err
	}

	ct := header.Header.Get(echo.HeaderContentType)
	if ct == "" {
		ct = http.DetectContentType(content)
	}

	return repository.Image{Name: header.Filename, ContentType: ct, Content: content}, nil
}

func readPart(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open form part")
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read form part")
	}

	return content, nil
}

func imageURL(name string) string {
	return "/images/" + name
}
