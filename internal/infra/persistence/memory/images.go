package memory

import (
	"context"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"

	"storefront/internal/domain/repository"
	"storefront/internal/errors"
	"storefront/internal/util"
)

func (s *Store) SaveImage(_ context.Context, img repository.Image) (string, error) {
	if len(img.Content) == 0 {
		return "", errors.New("image is empty")
	}

	name := uuid.NewString() + strings.ToLower(path.Ext(img.Name))

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := img
	stored.Name = name
	stored.Content = append([]byte(nil), img.Content...)
	s.images[name] = &stored

	s.logger.Debug("Image stored",
		slog.String("name", name),
		slog.String("contentType", img.ContentType),
		slog.String("size", util.ByteSize(int64(len(img.Content)))),
	)

	return name, nil
}

func (s *Store) FindImage(_ context.Context, name string) (*repository.Image, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	img, ok := s.images[name]
	if !ok {
		return nil, errors.WithStack(repository.ErrImageNotFound)
	}

	out := *img

	return &out, nil
}
