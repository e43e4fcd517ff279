package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-service/internal/api/dto"
	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/followup"
	"github.com/spec-kit/crm-service/internal/service"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

// CustomersHandler manages customer endpoints including the follow-up
// transitions and the audit history.
type CustomersHandler struct {
	service *service.CustomerService
}

// NewCustomersHandler constructs the handler.
func NewCustomersHandler(customerService *service.CustomerService) *CustomersHandler {
	return &CustomersHandler{service: customerService}
}

// Create POST /customers.
func (h *CustomersHandler) Create(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}
	input, err := parseCustomerPayload(c)
	if err != nil {
		return err
	}

	customer, err := h.service.CreateCustomer(c.Context(), identity, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": customerResponse(customer)})
}

// List GET /customers.
func (h *CustomersHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	customers, err := h.service.ListCustomers(c.Context(), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		items = append(items, customerResponse(&customers[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /customers/:customerID.
func (h *CustomersHandler) Get(c *fiber.Ctx) error {
	customer, err := h.service.GetCustomer(c.Context(), c.Params("customerID"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": customerResponse(customer)})
}

// Update PUT /customers/:customerID.
func (h *CustomersHandler) Update(c *fiber.Ctx) error {
	input, err := parseCustomerPayload(c)
	if err != nil {
		return err
	}

	customer, err := h.service.UpdateCustomer(c.Context(), c.Params("customerID"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": customerResponse(customer)})
}

// Delete DELETE /customers/:customerID.
func (h *CustomersHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteCustomer(c.Context(), c.Params("customerID")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// SetFollowUp PUT /customers/:customerID/follow-up. A null date clears the
// follow-up; a malformed date never reaches the store.
func (h *CustomersHandler) SetFollowUp(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}
	var req dto.SetFollowUpRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}

	var next *time.Time
	if req.FollowUpOn != nil {
		parsed, err := followup.ParseDate(*req.FollowUpOn)
		if err != nil {
			return apperrors.NewInvalidInput("follow_up_on must be a valid YYYY-MM-DD date", nil)
		}
		next = &parsed
	}

	customer, change, err := h.service.SetFollowUp(c.Context(), identity, c.Params("customerID"), next)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": followUpResponse(customer, change)})
}

// MarkFollowUpDone POST /customers/:customerID/follow-up/done.
func (h *CustomersHandler) MarkFollowUpDone(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}

	customer, change, err := h.service.MarkFollowUpDone(c.Context(), identity, c.Params("customerID"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": followUpResponse(customer, change)})
}

// History GET /customers/:customerID/history.
func (h *CustomersHandler) History(c *fiber.Ctx) error {
	entries, err := h.service.ListHistory(c.Context(), c.Params("customerID"))
	if err != nil {
		return err
	}
	items := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.AuditEntryResponse{
			ID:        entry.ID,
			Text:      entry.Text,
			CreatedAt: entry.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseCustomerPayload(c *fiber.Ctx) (service.CustomerInput, error) {
	var req dto.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return service.CustomerInput{}, apperrors.NewInvalidInput("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		return service.CustomerInput{}, apperrors.NewInvalidInput("name and email required", nil)
	}
	return service.CustomerInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
	}, nil
}

func customerResponse(customer *domain.Customer) dto.CustomerResponse {
	var followUp *string
	if customer.FollowUpOn != nil {
		s := customer.FollowUpOn.Format("2006-01-02")
		followUp = &s
	}
	return dto.CustomerResponse{
		ID:         customer.ID,
		Number:     customer.Number,
		Name:       customer.Name,
		Email:      customer.Email,
		Phone:      customer.Phone,
		Company:    customer.Company,
		FollowUpOn: followUp,
		CreatedAt:  customer.CreatedAt,
		UpdatedAt:  customer.UpdatedAt,
	}
}

func followUpResponse(customer *domain.Customer, change followup.Change) fiber.Map {
	return fiber.Map{
		"customer": customerResponse(customer),
		"change":   string(change.Kind),
	}
}
