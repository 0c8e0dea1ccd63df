package store

import "taskflow/internal/models"

// CategoryState is the Category Store.
type CategoryState struct {
	Categories []models.Category
	Phase      Phase
	Error      string
	// Filter is models.FilterAll or a category id. It may name a category that
	// no longer exists; the filtered view is then empty.
	Filter string
	Seq    uint64
	// Settled is set once any load has completed, successfully or not.
	Settled bool
}

// NewCategoryState returns an idle store with the "all" filter selected.
func NewCategoryState() CategoryState {
	return CategoryState{Filter: models.FilterAll}
}

// Loading reports whether the latest load is still pending.
func (s CategoryState) Loading() bool { return s.Phase == Loading }

// Find returns the category with the given id.
func (s CategoryState) Find(id string) (models.Category, bool) {
	for _, c := range s.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return models.Category{}, false
}

// CategoryAction is a transition of the Category Store.
type CategoryAction interface {
	applyCategory(CategoryState) CategoryState
}

// CategoriesLoaded completes load Seq with a full replacement of the collection.
type CategoriesLoaded struct {
	Seq        uint64
	Categories []models.Category
}

// AppendCategory adds a category at the end of the collection.
type AppendCategory struct{ Category models.Category }

// RemoveCategory drops the category with the given id.
type RemoveCategory struct{ ID string }

// SelectFilter sets the selected filter. The value is not checked against the store.
type SelectFilter struct{ Value string }

// ReduceCategories applies a to s and returns the new state. s is not modified.
func ReduceCategories(s CategoryState, a CategoryAction) CategoryState {
	return a.applyCategory(s)
}

func (BeginLoad) applyCategory(s CategoryState) CategoryState {
	s.Seq++
	s.Phase = Loading
	s.Error = ""
	return s
}

func (a CategoriesLoaded) applyCategory(s CategoryState) CategoryState {
	if a.Seq != s.Seq {
		return s
	}
	s.Categories = append([]models.Category(nil), a.Categories...)
	s.Phase = Loaded
	s.Error = ""
	s.Settled = true
	return s
}

func (a LoadFailed) applyCategory(s CategoryState) CategoryState {
	if a.Seq != s.Seq {
		return s
	}
	s.Phase = Errored
	s.Error = a.Err
	s.Settled = true
	return s
}

func (a AppendCategory) applyCategory(s CategoryState) CategoryState {
	next := make([]models.Category, 0, len(s.Categories)+1)
	for _, c := range s.Categories {
		if c.ID != a.Category.ID {
			next = append(next, c)
		}
	}
	s.Categories = append(next, a.Category)
	return s
}

func (a RemoveCategory) applyCategory(s CategoryState) CategoryState {
	if _, ok := s.Find(a.ID); !ok {
		return s
	}
	next := make([]models.Category, 0, len(s.Categories)-1)
	for _, c := range s.Categories {
		if c.ID != a.ID {
			next = append(next, c)
		}
	}
	s.Categories = next
	return s
}

func (a SelectFilter) applyCategory(s CategoryState) CategoryState {
	if a.Value == "" {
		a.Value = models.FilterAll
	}
	s.Filter = a.Value
	return s
}
