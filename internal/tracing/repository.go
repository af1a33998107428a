package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/tiddly/internal/domain"
)

// ItemRepository wraps a domain.ItemRepository with tracing spans. Each
// operation records its arguments and result size; errors mark the span.
type ItemRepository struct {
	inner  domain.ItemRepository
	tracer trace.Tracer
}

// NewItemRepository decorates repo with spans from the provider's tracer.
func NewItemRepository(repo domain.ItemRepository, provider *Provider) *ItemRepository {
	return &ItemRepository{inner: repo, tracer: provider.Tracer()}
}

var _ domain.ItemRepository = (*ItemRepository)(nil)

func (r *ItemRepository) span(name string, attrs ...attribute.KeyValue) trace.Span {
	_, span := r.tracer.Start(context.Background(), name, trace.WithAttributes(attrs...))
	return span
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func (r *ItemRepository) Save(item *domain.Item) error {
	span := r.span("repo.item.save",
		attribute.Int64("item.id", item.ID()),
		attribute.String("item.kind", item.Kind().String()),
	)
	err := r.inner.Save(item)
	finish(span, err)
	return err
}

func (r *ItemRepository) FindByID(id int64) (*domain.Item, error) {
	span := r.span("repo.item.find_by_id", attribute.Int64("item.id", id))
	item, err := r.inner.FindByID(id)
	finish(span, err)
	return item, err
}

func (r *ItemRepository) FindByGUID(guid string) (*domain.Item, error) {
	span := r.span("repo.item.find_by_guid", attribute.String("item.guid", guid))
	item, err := r.inner.FindByGUID(guid)
	finish(span, err)
	return item, err
}

func (r *ItemRepository) ListWithFilter(filter domain.ItemFilter) ([]*domain.Item, error) {
	span := r.span("repo.item.list",
		attribute.String("filter.kind", string(filter.Kind)),
		attribute.String("filter.tag", filter.Tag),
		attribute.Bool("filter.has_search", filter.Search != ""),
	)
	items, err := r.inner.ListWithFilter(filter)
	span.SetAttributes(attribute.Int("result.count", len(items)))
	finish(span, err)
	return items, err
}

func (r *ItemRepository) TagCounts() ([]domain.TagCount, error) {
	span := r.span("repo.item.tag_counts")
	counts, err := r.inner.TagCounts()
	span.SetAttributes(attribute.Int("result.count", len(counts)))
	finish(span, err)
	return counts, err
}

func (r *ItemRepository) Delete(id int64) error {
	span := r.span("repo.item.delete", attribute.Int64("item.id", id))
	err := r.inner.Delete(id)
	finish(span, err)
	return err
}

func (r *ItemRepository) Purge() error {
	span := r.span("repo.item.purge")
	err := r.inner.Purge()
	finish(span, err)
	return err
}

// ListRepository wraps a domain.ListRepository with tracing spans.
type ListRepository struct {
	inner  domain.ListRepository
	tracer trace.Tracer
}

// NewListRepository decorates repo with spans from the provider's tracer.
func NewListRepository(repo domain.ListRepository, provider *Provider) *ListRepository {
	return &ListRepository{inner: repo, tracer: provider.Tracer()}
}

var _ domain.ListRepository = (*ListRepository)(nil)

func (r *ListRepository) span(name string, attrs ...attribute.KeyValue) trace.Span {
	_, span := r.tracer.Start(context.Background(), name, trace.WithAttributes(attrs...))
	return span
}

func (r *ListRepository) Save(list *domain.List) error {
	span := r.span("repo.list.save",
		attribute.Int64("list.id", list.ID()),
		attribute.Int("list.size", list.Len()),
	)
	err := r.inner.Save(list)
	finish(span, err)
	return err
}

func (r *ListRepository) FindByID(id int64) (*domain.List, error) {
	span := r.span("repo.list.find_by_id", attribute.Int64("list.id", id))
	list, err := r.inner.FindByID(id)
	finish(span, err)
	return list, err
}

func (r *ListRepository) FindByName(name string) (*domain.List, error) {
	span := r.span("repo.list.find_by_name", attribute.String("list.name", name))
	list, err := r.inner.FindByName(name)
	finish(span, err)
	return list, err
}

func (r *ListRepository) All() ([]*domain.List, error) {
	span := r.span("repo.list.all")
	lists, err := r.inner.All()
	span.SetAttributes(attribute.Int("result.count", len(lists)))
	finish(span, err)
	return lists, err
}

func (r *ListRepository) Delete(id int64) error {
	span := r.span("repo.list.delete", attribute.Int64("list.id", id))
	err := r.inner.Delete(id)
	finish(span, err)
	return err
}
