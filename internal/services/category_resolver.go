package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"

	"proprental/internal/models"
	"proprental/internal/repositories"

	"github.com/google/uuid"
)

// CategoryResolver maps free-text category names from CSV rows to category
// IDs, creating missing categories on the fly. One resolver lives for one
// batch: the lookup table is preloaded once and extended as categories are
// created, so the same new name in later rows reuses the same record.
type CategoryResolver struct {
	repo repositories.CategoryRepository
	now  func() time.Time

	mu      sync.Mutex
	byName  map[string][]*models.Category // lower-cased name -> all matches
	created int
}

func NewCategoryResolver(repo repositories.CategoryRepository) *CategoryResolver {
	return &CategoryResolver{
		repo:   repo,
		now:    time.Now,
		byName: make(map[string][]*models.Category),
	}
}

// Preload loads every existing category into the lookup table. Must be called
// once before resolving.
func (r *CategoryResolver) Preload(ctx context.Context) error {
	categories, err := r.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("preload categories: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, category := range categories {
		key := strings.ToLower(category.Name)
		r.byName[key] = append(r.byName[key], category)
	}
	return nil
}

// CreatedCount reports how many categories this batch created.
func (r *CategoryResolver) CreatedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.created
}

// ResolveCategory finds or creates a main category for name. Matching is
// case-insensitive; a main category is preferred when several share the name.
func (r *CategoryResolver) ResolveCategory(ctx context.Context, name string) (uuid.UUID, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return uuid.Nil, fmt.Errorf("category name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	candidates := r.byName[strings.ToLower(name)]
	for _, c := range candidates {
		if c.IsMain() {
			return c.ID, nil
		}
	}
	if len(candidates) > 0 {
		return candidates[0].ID, nil
	}

	category, err := r.createLocked(ctx, FormatCategoryName(name), nil)
	if err != nil {
		return uuid.Nil, err
	}
	if key := strings.ToLower(name); key != strings.ToLower(category.Name) {
		r.byName[key] = append(r.byName[key], category)
	}
	return category.ID, nil
}

// ResolveSubcategory finds or creates a subcategory of parentID. A name that
// only exists under a different parent is a collision: a new, disambiguated
// category is created instead of reusing or reparenting the existing one, so
// another category's subtree is never cross-linked.
func (r *CategoryResolver) ResolveSubcategory(ctx context.Context, name string, parentID uuid.UUID) (uuid.UUID, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return uuid.Nil, fmt.Errorf("subcategory name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	formatted := FormatCategoryName(name)
	candidates := r.byName[strings.ToLower(name)]
	for _, c := range candidates {
		if c.ParentID != nil && *c.ParentID == parentID {
			return c.ID, nil
		}
	}

	if len(candidates) > 0 {
		// Same name under a different parent (or as a main category).
		formatted = fmt.Sprintf("%s %d", formatted, r.now().Unix())
	}

	category, err := r.createLocked(ctx, formatted, &parentID)
	if err != nil {
		return uuid.Nil, err
	}
	// Register under the caller's key too, so later rows asking for the same
	// (name, parent) find the disambiguated record instead of creating again.
	if key := strings.ToLower(name); key != strings.ToLower(category.Name) {
		r.byName[key] = append(r.byName[key], category)
	}
	return category.ID, nil
}

// createLocked persists a new category and registers it in the lookup table.
// Callers hold r.mu, which makes check-then-create atomic within the batch.
func (r *CategoryResolver) createLocked(ctx context.Context, name string, parentID *uuid.UUID) (*models.Category, error) {
	category := &models.Category{
		ID:       uuid.New(),
		Name:     name,
		Slug:     Slugify(name),
		ParentID: parentID,
	}
	if err := r.repo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category %q: %w", name, err)
	}

	key := strings.ToLower(category.Name)
	r.byName[key] = append(r.byName[key], category)
	r.created++
	return category, nil
}

// FormatCategoryName title-cases a free-text name: first letter of each
// whitespace-separated token upper, remainder lower, single spaces between.
func FormatCategoryName(name string) string {
	tokens := strings.Fields(name)
	for i, token := range tokens {
		runes := []rune(strings.ToLower(token))
		runes[0] = unicode.ToUpper(runes[0])
		tokens[i] = string(runes)
	}
	return strings.Join(tokens, " ")
}

var slugSeparators = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives the URL-safe identifier: lower-cased, runs of
// non-alphanumerics collapsed to single hyphens, no leading/trailing hyphen.
func Slugify(name string) string {
	slug := slugSeparators.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}
