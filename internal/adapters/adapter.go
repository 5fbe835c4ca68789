package adapters

import (
	"context"
	"errors"
	"fmt"

	"contentorchestrator/internal/models"
)

var ErrUnknownPlatform = errors.New("неизвестная платформа")

// Adapter: интеграция с одной внешней площадкой.
//
// Publish никогда не возвращает ошибку наружу: всё, включая сетевые сбои,
// сворачивается в PublishResult. Unpublish: best effort; площадки без API
// удаления могут возвращать true, ничего не удаляя.
// Журнал публикаций адаптеры не трогают.
type Adapter interface {
	Descriptor() models.PlatformDescriptor
	Publish(ctx context.Context, view models.ContentView, credential string) models.PublishResult
	Unpublish(ctx context.Context, articleID, platformID, credential string, lang models.Language) bool
}

func failed(format string, args ...any) models.PublishResult {
	return models.PublishResult{Success: false, Error: fmt.Sprintf(format, args...)}
}

func published(platformID string) models.PublishResult {
	return models.PublishResult{Success: true, PlatformID: platformID}
}

// Registry: соответствие платформа -> адаптер.
type Registry struct {
	adapters map[models.Platform]Adapter
	order    []models.Platform
}

func NewRegistry(list ...Adapter) *Registry {
	r := &Registry{adapters: make(map[models.Platform]Adapter)}
	for _, a := range list {
		r.Register(a)
	}
	return r
}

// Register заменяет адаптер, если платформа уже зарегистрирована.
func (r *Registry) Register(a Adapter) {
	p := a.Descriptor().Platform
	if _, ok := r.adapters[p]; !ok {
		r.order = append(r.order, p)
	}
	r.adapters[p] = a
}

func (r *Registry) Resolve(p models.Platform) (Adapter, error) {
	a, ok := r.adapters[p]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlatform, p)
	}
	return a, nil
}

// Descriptors в порядке регистрации.
func (r *Registry) Descriptors() []models.PlatformDescriptor {
	out := make([]models.PlatformDescriptor, 0, len(r.order))
	for _, p := range r.order {
		out = append(out, r.adapters[p].Descriptor())
	}
	return out
}
