package handlers

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"shopcore/internal/models"
	"shopcore/internal/slug"
)

// Validation limits for user and catalog fields.
const (
	minPasswordLen = 8
	minNameLen     = 2
	maxNameLen     = 50
	maxTitleLen    = 255
	maxDescLen     = 10_000
	maxShortDesc   = 500
	maxSKULen      = 100
)

var (
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9][0-9 ()-]{6,19}$`)
)

// validEmail reports whether s looks like an email address.
func validEmail(s string) bool {
	return emailRe.MatchString(s) && utf8.RuneCountInString(s) <= 255
}

// validPassword enforces the password policy: at least 8 characters
// with an uppercase letter, a lowercase letter, a digit and a special
// character.
func validPassword(s string) bool {
	if utf8.RuneCountInString(s) < minPasswordLen {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	return upper && lower && digit && special
}

// validName checks a first or last name field.
func validName(s string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	return n >= minNameLen && n <= maxNameLen
}

// validPhone checks an optional phone number. Permissive about
// formatting as long as it reads like a dialable number.
func validPhone(s string) bool {
	return phoneRe.MatchString(s)
}

// registerRequest is the body for POST /auth/register.
type registerRequest struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     *string `json:"phone,omitempty"`
	Role      string  `json:"role,omitempty"`
}

// validate normalizes the request in place and returns all field
// errors found.
func (req *registerRequest) validate() []string {
	var errs []string

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !validEmail(req.Email) {
		errs = append(errs, "A valid email address is required.")
	}
	if !validPassword(req.Password) {
		errs = append(errs, "Password must be at least 8 characters with uppercase, lowercase, digit and special character.")
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	if !validName(req.FirstName) {
		errs = append(errs, "First name must be between 2 and 50 characters.")
	}
	req.LastName = strings.TrimSpace(req.LastName)
	if !validName(req.LastName) {
		errs = append(errs, "Last name must be between 2 and 50 characters.")
	}
	if req.Phone != nil {
		trimmed := strings.TrimSpace(*req.Phone)
		if trimmed == "" {
			req.Phone = nil
		} else if !validPhone(trimmed) {
			errs = append(errs, "Phone number is not valid.")
		} else {
			req.Phone = &trimmed
		}
	}
	if req.Role == "" {
		req.Role = string(models.RoleCustomer)
	}
	if !models.ValidRole(req.Role) {
		errs = append(errs, "Role must be one of: customer, vendor, admin.")
	}
	return errs
}

// categoryRequest is the body for category create and update.
type categoryRequest struct {
	Name        *string `json:"name,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	ParentID    *string `json:"parent_id,omitempty"`
	SortOrder   *int    `json:"sort_order,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// validate checks fields that are present; create additionally requires
// a name.
func (req *categoryRequest) validate(create bool) []string {
	var errs []string

	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
		if trimmed == "" || utf8.RuneCountInString(trimmed) > maxTitleLen {
			errs = append(errs, "Category name must be between 1 and 255 characters.")
		}
	} else if create {
		errs = append(errs, "Category name is required.")
	}

	if req.Slug != nil && !slug.Valid(*req.Slug) {
		errs = append(errs, "Slug may only contain lowercase letters, digits and hyphens.")
	}
	if req.SortOrder != nil && *req.SortOrder < 0 {
		errs = append(errs, "Sort order cannot be negative.")
	}
	return errs
}

// productRequest is the body for product create and update.
type productRequest struct {
	Name              *string            `json:"name,omitempty"`
	Slug              *string            `json:"slug,omitempty"`
	Description       *string            `json:"description,omitempty"`
	ShortDescription  *string            `json:"short_description,omitempty"`
	SKU               *string            `json:"sku,omitempty"`
	Price             *float64           `json:"price,omitempty"`
	ComparePrice      *float64           `json:"compare_price,omitempty"`
	CostPrice         *float64           `json:"cost_price,omitempty"`
	StockQuantity     *int               `json:"stock_quantity,omitempty"`
	LowStockThreshold *int               `json:"low_stock_threshold,omitempty"`
	Weight            *float64           `json:"weight,omitempty"`
	Dimensions        *models.Dimensions `json:"dimensions,omitempty"`
	IsActive          *bool              `json:"is_active,omitempty"`
	IsFeatured        *bool              `json:"is_featured,omitempty"`
	VendorID          *string            `json:"vendor_id,omitempty"`
	CategoryID        *string            `json:"category_id,omitempty"`
}

// validate checks fields that are present; create additionally requires
// name, description, SKU, price, vendor and category.
func (req *productRequest) validate(create bool) []string {
	var errs []string

	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
		if trimmed == "" || utf8.RuneCountInString(trimmed) > maxTitleLen {
			errs = append(errs, "Product name must be between 1 and 255 characters.")
		}
	} else if create {
		errs = append(errs, "Product name is required.")
	}

	if req.Description != nil {
		if utf8.RuneCountInString(*req.Description) > maxDescLen {
			errs = append(errs, "Description is too long (max 10,000 characters).")
		}
	} else if create {
		errs = append(errs, "Description is required.")
	}

	if req.ShortDescription != nil && utf8.RuneCountInString(*req.ShortDescription) > maxShortDesc {
		errs = append(errs, "Short description is too long (max 500 characters).")
	}

	if req.SKU != nil {
		trimmed := strings.TrimSpace(*req.SKU)
		req.SKU = &trimmed
		if trimmed == "" || utf8.RuneCountInString(trimmed) > maxSKULen {
			errs = append(errs, "SKU must be between 1 and 100 characters.")
		}
	} else if create {
		errs = append(errs, "SKU is required.")
	}

	if req.Slug != nil && !slug.Valid(*req.Slug) {
		errs = append(errs, "Slug may only contain lowercase letters, digits and hyphens.")
	}

	if req.Price != nil {
		if *req.Price < 0 {
			errs = append(errs, "Price cannot be negative.")
		}
	} else if create {
		errs = append(errs, "Price is required.")
	}
	if req.ComparePrice != nil && *req.ComparePrice < 0 {
		errs = append(errs, "Compare price cannot be negative.")
	}
	if req.CostPrice != nil && *req.CostPrice < 0 {
		errs = append(errs, "Cost price cannot be negative.")
	}
	if req.StockQuantity != nil && *req.StockQuantity < 0 {
		errs = append(errs, "Stock quantity cannot be negative.")
	}
	if req.LowStockThreshold != nil && *req.LowStockThreshold < 0 {
		errs = append(errs, "Low stock threshold cannot be negative.")
	}
	if req.Weight != nil && *req.Weight < 0 {
		errs = append(errs, "Weight cannot be negative.")
	}

	if create && req.VendorID == nil {
		errs = append(errs, "Vendor ID is required.")
	}
	if create && req.CategoryID == nil {
		errs = append(errs, "Category ID is required.")
	}
	return errs
}

// vendorRequest is the body for vendor application submit and update.
type vendorRequest struct {
	BusinessName    *string             `json:"business_name,omitempty"`
	BusinessType    *string             `json:"business_type,omitempty"`
	TaxID           *string             `json:"tax_id,omitempty"`
	BusinessAddress *models.Address     `json:"business_address,omitempty"`
	ContactEmail    *string             `json:"contact_email,omitempty"`
	ContactPhone    *string             `json:"contact_phone,omitempty"`
	Description     *string             `json:"description,omitempty"`
	Logo            *string             `json:"logo,omitempty"`
	Website         *string             `json:"website,omitempty"`
	PaymentInfo     *models.PaymentInfo `json:"payment_info,omitempty"`
}

// validate checks fields that are present; submit additionally requires
// the business identity, contact and payment details.
func (req *vendorRequest) validate(submit bool) []string {
	var errs []string

	if req.BusinessName != nil {
		trimmed := strings.TrimSpace(*req.BusinessName)
		req.BusinessName = &trimmed
		if trimmed == "" || utf8.RuneCountInString(trimmed) > maxTitleLen {
			errs = append(errs, "Business name must be between 1 and 255 characters.")
		}
	} else if submit {
		errs = append(errs, "Business name is required.")
	}

	if req.BusinessType != nil {
		if !models.ValidBusinessType(*req.BusinessType) {
			errs = append(errs, "Business type must be one of: individual, corporation, llc, partnership, sole_proprietorship.")
		}
	} else if submit {
		errs = append(errs, "Business type is required.")
	}

	if req.ContactEmail != nil {
		normalized := strings.ToLower(strings.TrimSpace(*req.ContactEmail))
		req.ContactEmail = &normalized
		if !validEmail(normalized) {
			errs = append(errs, "A valid contact email is required.")
		}
	} else if submit {
		errs = append(errs, "Contact email is required.")
	}

	if req.ContactPhone != nil {
		if !validPhone(strings.TrimSpace(*req.ContactPhone)) {
			errs = append(errs, "Contact phone is not valid.")
		}
	} else if submit {
		errs = append(errs, "Contact phone is required.")
	}

	if req.BusinessAddress != nil {
		a := req.BusinessAddress
		if a.Street == "" || a.City == "" || a.Country == "" {
			errs = append(errs, "Business address must include street, city and country.")
		}
	} else if submit {
		errs = append(errs, "Business address is required.")
	}

	if req.PaymentInfo != nil {
		p := req.PaymentInfo
		if p.AccountType == "" || p.AccountNumber == "" || p.AccountHolder == "" {
			errs = append(errs, "Payment info must include account type, number and holder.")
		}
	} else if submit {
		errs = append(errs, "Payment info is required.")
	}
	return errs
}
