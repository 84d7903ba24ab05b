package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/pagination"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new global category
func (s *categoryService) CreateCategory(
	name string,
	categoryType models.CategoryType,
	description string,
	icon string,
	color string,
) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if categoryType != models.CategoryTypeIncome && categoryType != models.CategoryTypeExpense {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category type must be income or expense")
	}

	if err := s.ensureUniqueName(name, ""); err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:        name,
		Type:        categoryType,
		Description: description,
		Icon:        icon,
		Color:       color,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// ensureUniqueName rejects a name already used by another live category,
// ignoring case.
func (s *categoryService) ensureUniqueName(name, excludeID string) error {
	q := s.db.Model(&models.Category{}).Where("LOWER(name) = ?", strings.ToLower(name))
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateCategory
	}
	return nil
}

// ListCategories returns a page of categories, optionally of one type,
// ordered by name.
func (s *categoryService) ListCategories(page pagination.PageRequest, categoryType *models.CategoryType) (*pagination.PageResponse[models.Category], error) {
	page.Defaults()

	base := s.db.Model(&models.Category{})
	if categoryType != nil {
		base = base.Where("type = ?", *categoryType)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := base.Order("name ASC").Scopes(pagination.Paginate(page)).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCategoryByID retrieves a live category by ID
func (s *categoryService) GetCategoryByID(categoryID string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory updates an existing category. A rename is copied onto the
// name snapshots of every budget and transaction that references the
// category by ID.
func (s *categoryService) UpdateCategory(categoryID, name, description, icon, color string) (*models.Category, error) {
	category, err := s.GetCategoryByID(categoryID)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	renamed := name != "" && name != category.Name
	if renamed {
		if err := s.ensureUniqueName(name, category.ID); err != nil {
			return nil, err
		}
	}

	updates := make(map[string]interface{})
	if renamed {
		updates["name"] = name
	}
	if description != "" {
		updates["description"] = description
	}
	if icon != "" {
		updates["icon"] = icon
	}
	if color != "" {
		updates["color"] = color
	}
	if len(updates) == 0 {
		return category, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(category).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if !renamed {
			return nil
		}
		if err := tx.Model(&models.Budget{}).Where("category_id = ?", category.ID).
			Update("category_name", name).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Model(&models.Transaction{}).Where("category_id = ?", category.ID).
			Update("category", name).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetCategoryByID(categoryID)
}

// DeleteCategory soft-deletes a category. Transactions keep their reference
// for history; budgets on it stop counting towards any total because the
// category no longer resolves.
func (s *categoryService) DeleteCategory(categoryID string) error {
	category, err := s.GetCategoryByID(categoryID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
