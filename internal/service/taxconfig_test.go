package service

import (
	"testing"

	"github.com/flexprice/ordertax/internal/api/dto"
	"github.com/flexprice/ordertax/internal/domain/ordertax"
	ierr "github.com/flexprice/ordertax/internal/errors"
	"github.com/flexprice/ordertax/internal/testutil"
	"github.com/flexprice/ordertax/internal/types"
	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type TaxConfigurationServiceSuite struct {
	testutil.BaseServiceTestSuite
	service    TaxConfigurationService
	taxService TaxService
}

func TestTaxConfigurationService(t *testing.T) {
	suite.Run(t, new(TaxConfigurationServiceSuite))
}

func (s *TaxConfigurationServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	params := ServiceParams{
		Logger:              s.GetLogger(),
		Config:              s.GetConfig(),
		DB:                  s.GetDB(),
		TaxConfigRepo:       s.GetStores().TaxConfigRepo,
		ConfigurationSource: s.GetStores().TaxConfigRepo,
		CalculationCache:    s.GetCalculationCache(),
		Tracker:             NewOrderTotalsTracker(s.GetLogger()),
		PubSub:              s.GetPubSub(),
	}
	s.service = NewTaxConfigurationService(params)
	s.taxService = NewTaxService(params)
}

func createRequest(serviceType types.ServiceType, rate string) dto.CreateTaxConfigurationRequest {
	return dto.CreateTaxConfigurationRequest{
		Name:        "GST " + rate,
		TaxType:     types.TaxTypeGST,
		TaxRate:     lo.ToPtr(decimal.RequireFromString(rate)),
		ServiceType: serviceType,
		IsDefault:   true,
	}
}

func (s *TaxConfigurationServiceSuite) create(serviceType types.ServiceType, rate string) *dto.TaxConfigurationResponse {
	resp, err := s.service.Create(s.GetContext(), testutil.DefaultOrganizationID, createRequest(serviceType, rate))
	s.Require().NoError(err)
	return resp
}

func (s *TaxConfigurationServiceSuite) TestCreate() {
	resp := s.create(types.ServiceTypeDineIn, "5")

	s.NotEmpty(resp.ID)
	s.Equal(testutil.DefaultOrganizationID, resp.OrganizationID)
	s.True(resp.IsActive)
	s.True(resp.IsDefault)
	s.Equal(types.StatusPublished, resp.Status)
	s.True(decimal.NewFromInt(5).Equal(resp.TaxRate))

	messages := s.GetPubSub().GetMessages(types.TopicTaxConfigurationChanged)
	s.Require().Len(messages, 1)

	var event types.TaxConfigurationEvent
	s.Require().NoError(jsoniter.Unmarshal(messages[0].Payload, &event))
	s.Equal(types.TaxConfigurationEventCreated, event.EventName)
	s.Equal(resp.ID, event.TaxConfigurationID)
	s.Equal(testutil.DefaultOrganizationID, event.OrganizationID)
}

func (s *TaxConfigurationServiceSuite) TestCreateTaxConfigurationValidation() {
	tests := []struct {
		name   string
		mutate func(*dto.CreateTaxConfigurationRequest)
	}{
		{name: "missing rate", mutate: func(r *dto.CreateTaxConfigurationRequest) { r.TaxRate = nil }},
		{name: "rate above 100", mutate: func(r *dto.CreateTaxConfigurationRequest) { r.TaxRate = lo.ToPtr(decimal.NewFromInt(101)) }},
		{name: "negative rate", mutate: func(r *dto.CreateTaxConfigurationRequest) { r.TaxRate = lo.ToPtr(decimal.NewFromInt(-1)) }},
		{name: "rate finer than four places", mutate: func(r *dto.CreateTaxConfigurationRequest) {
			r.TaxRate = lo.ToPtr(decimal.RequireFromString("5.12345"))
		}},
		{name: "unknown service type", mutate: func(r *dto.CreateTaxConfigurationRequest) { r.ServiceType = "CATERING" }},
		{name: "unknown tax type", mutate: func(r *dto.CreateTaxConfigurationRequest) { r.TaxType = "EXCISE" }},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			req := createRequest(types.ServiceTypeAll, "5")
			tt.mutate(&req)

			_, err := s.service.Create(s.GetContext(), testutil.DefaultOrganizationID, req)
			s.Error(err)
			s.True(ierr.IsValidation(err))
		})
	}
}

func (s *TaxConfigurationServiceSuite) TestCreateSecondDefaultConflicts() {
	s.create(types.ServiceTypeAll, "12")

	_, err := s.service.Create(s.GetContext(), testutil.DefaultOrganizationID, createRequest(types.ServiceTypeAll, "18"))
	s.Error(err)
	s.True(ierr.IsConflict(err))

	// a non default configuration does not take the slot
	req := createRequest(types.ServiceTypeAll, "18")
	req.IsDefault = false
	_, err = s.service.Create(s.GetContext(), testutil.DefaultOrganizationID, req)
	s.NoError(err)

	// neither does a default of another organization
	_, err = s.service.Create(s.GetContext(), "org_other", createRequest(types.ServiceTypeAll, "18"))
	s.NoError(err)
}

func (s *TaxConfigurationServiceSuite) TestUpdateIntoTakenSlotConflicts() {
	s.create(types.ServiceTypeDineIn, "5")

	req := createRequest(types.ServiceTypeTakeaway, "8")
	takeaway, err := s.service.Create(s.GetContext(), testutil.DefaultOrganizationID, req)
	s.Require().NoError(err)

	_, err = s.service.Update(s.GetContext(), testutil.DefaultOrganizationID, takeaway.ID, dto.UpdateTaxConfigurationRequest{
		ServiceType: lo.ToPtr(types.ServiceTypeDineIn),
	})
	s.True(ierr.IsConflict(err))

	// deactivating the configuration frees it from the slot
	updated, err := s.service.Update(s.GetContext(), testutil.DefaultOrganizationID, takeaway.ID, dto.UpdateTaxConfigurationRequest{
		ServiceType: lo.ToPtr(types.ServiceTypeDineIn),
		IsActive:    lo.ToPtr(false),
	})
	s.Require().NoError(err)
	s.Equal(types.ServiceTypeDineIn, updated.ServiceType)
	s.False(updated.IsActive)
}

func (s *TaxConfigurationServiceSuite) TestUpdate() {
	created := s.create(types.ServiceTypeAll, "12")

	updated, err := s.service.Update(s.GetContext(), testutil.DefaultOrganizationID, created.ID, dto.UpdateTaxConfigurationRequest{
		TaxRate:          lo.ToPtr(decimal.RequireFromString("18")),
		IsPriceInclusive: lo.ToPtr(true),
	})
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(18).Equal(updated.TaxRate))
	s.True(updated.IsPriceInclusive)
	s.Equal(created.Name, updated.Name)

	got, err := s.service.Get(s.GetContext(), testutil.DefaultOrganizationID, created.ID)
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(18).Equal(got.TaxRate))

	_, err = s.service.Update(s.GetContext(), testutil.DefaultOrganizationID, created.ID, dto.UpdateTaxConfigurationRequest{
		TaxRate: lo.ToPtr(decimal.NewFromInt(150)),
	})
	s.True(ierr.IsValidation(err))
}

func (s *TaxConfigurationServiceSuite) TestUpdateRejectsRateFinerThanStored() {
	created := s.create(types.ServiceTypeAll, "5")

	_, err := s.service.Update(s.GetContext(), testutil.DefaultOrganizationID, created.ID, dto.UpdateTaxConfigurationRequest{
		TaxRate: lo.ToPtr(decimal.RequireFromString("5.00001")),
	})
	s.True(ierr.IsValidation(err))

	got, err := s.service.Get(s.GetContext(), testutil.DefaultOrganizationID, created.ID)
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(5).Equal(got.TaxRate))
}

func (s *TaxConfigurationServiceSuite) TestOtherOrganizationIsNotFound() {
	created := s.create(types.ServiceTypeAll, "12")

	_, err := s.service.Get(s.GetContext(), "org_other", created.ID)
	s.True(ierr.IsNotFound(err))

	_, err = s.service.Update(s.GetContext(), "org_other", created.ID, dto.UpdateTaxConfigurationRequest{
		Name: lo.ToPtr("hijacked"),
	})
	s.True(ierr.IsNotFound(err))

	err = s.service.Delete(s.GetContext(), "org_other", created.ID)
	s.True(ierr.IsNotFound(err))
}

func (s *TaxConfigurationServiceSuite) TestList() {
	s.create(types.ServiceTypeAll, "12")
	s.create(types.ServiceTypeDineIn, "5")
	s.create(types.ServiceTypeDelivery, "18")
	_, err := s.service.Create(s.GetContext(), "org_other", createRequest(types.ServiceTypeAll, "7"))
	s.Require().NoError(err)

	resp, err := s.service.List(s.GetContext(), testutil.DefaultOrganizationID, nil)
	s.Require().NoError(err)
	s.Len(resp.Items, 3)
	s.Equal(3, resp.Pagination.Total)

	filter := types.NewTaxConfigurationFilter()
	filter.ServiceTypes = []types.ServiceType{types.ServiceTypeDineIn}
	resp, err = s.service.List(s.GetContext(), testutil.DefaultOrganizationID, filter)
	s.Require().NoError(err)
	s.Require().Len(resp.Items, 1)
	s.Equal(types.ServiceTypeDineIn, resp.Items[0].ServiceType)
}

func (s *TaxConfigurationServiceSuite) TestDelete() {
	created := s.create(types.ServiceTypeAll, "12")

	s.Require().NoError(s.service.Delete(s.GetContext(), testutil.DefaultOrganizationID, created.ID))

	_, err := s.service.Get(s.GetContext(), testutil.DefaultOrganizationID, created.ID)
	s.True(ierr.IsNotFound(err))

	// the slot is free again
	s.create(types.ServiceTypeAll, "18")

	messages := s.GetPubSub().GetMessages(types.TopicTaxConfigurationChanged)
	s.Len(messages, 3)
}

func (s *TaxConfigurationServiceSuite) TestDeletedConfigurationsAreNeverListed() {
	created := s.create(types.ServiceTypeAll, "12")
	s.Require().NoError(s.service.Delete(s.GetContext(), testutil.DefaultOrganizationID, created.ID))

	filter := types.NewTaxConfigurationFilter()
	filter.Status = lo.ToPtr(types.StatusDeleted)
	_, err := s.service.List(s.GetContext(), testutil.DefaultOrganizationID, filter)
	s.True(ierr.IsValidation(err))

	// the store hides deleted rows even when no status is asked for
	filter = types.NewTaxConfigurationFilter()
	filter.Status = nil
	configs, err := s.GetStores().TaxConfigRepo.List(s.GetContext(), testutil.DefaultOrganizationID, filter)
	s.Require().NoError(err)
	s.Empty(configs)
}

func (s *TaxConfigurationServiceSuite) TestWriteInvalidatesCalculations() {
	created := s.create(types.ServiceTypeAll, "10")
	items := []ordertax.OrderItemForTax{{MenuItemID: "lassi", Quantity: 1, UnitPrice: decimal.NewFromInt(100)}}

	before, err := s.taxService.Calculate(s.GetContext(), testutil.DefaultOrganizationID, types.ServiceTypeAll, items)
	s.Require().NoError(err)
	s.Equal("110.00", before.TotalAmount.StringFixed(2))

	_, err = s.service.Update(s.GetContext(), testutil.DefaultOrganizationID, created.ID, dto.UpdateTaxConfigurationRequest{
		TaxRate: lo.ToPtr(decimal.NewFromInt(20)),
	})
	s.Require().NoError(err)

	// the cache window has not elapsed, yet the new rate applies
	after, err := s.taxService.Calculate(s.GetContext(), testutil.DefaultOrganizationID, types.ServiceTypeAll, items)
	s.Require().NoError(err)
	s.Equal("120.00", after.TotalAmount.StringFixed(2))
}

func (s *TaxConfigurationServiceSuite) TestPreview() {
	s.create(types.ServiceTypeAll, "12")
	dineIn := s.create(types.ServiceTypeDineIn, "5")

	preview, err := s.service.Preview(s.GetContext(), testutil.DefaultOrganizationID, lo.ToPtr(types.ServiceTypeDineIn))
	s.Require().NoError(err)
	s.Require().NotNil(preview.Configuration)
	s.Equal(dineIn.ID, preview.Configuration.ID)
	s.Equal("100.00", preview.SampleBreakdown.SubtotalAmount)
	s.Equal("5.00", preview.SampleBreakdown.TaxAmount)
	s.Equal("105.00", preview.SampleBreakdown.TotalAmount)

	preview, err = s.service.Preview(s.GetContext(), testutil.DefaultOrganizationID, nil)
	s.Require().NoError(err)
	s.Equal(types.ServiceTypeAll, preview.ServiceType)
	s.Equal("112.00", preview.SampleBreakdown.TotalAmount)

	preview, err = s.service.Preview(s.GetContext(), "org_empty", lo.ToPtr(types.ServiceTypeDelivery))
	s.Require().NoError(err)
	s.Nil(preview.Configuration)
	s.Equal(ordertax.MessageTaxAtCheckout, preview.SampleBreakdown.DisplayMessage)
}
