package service

import (
	"sort"
	"testing"
	"time"

	"booknest-backend/config"
	"booknest-backend/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOTPRepo is an in-memory OTPRepository
type fakeOTPRepo struct {
	otps   []*entity.OTPVerification
	nextID int
}

func (f *fakeOTPRepo) Create(otp *entity.OTPVerification) (*entity.OTPVerification, error) {
	f.nextID++
	stored := *otp
	stored.ID = f.nextID
	stored.Status = entity.OTPStatusPending
	stored.CreatedAt = time.Now()
	f.otps = append(f.otps, &stored)
	return &stored, nil
}

func (f *fakeOTPRepo) GetPendingByPhoneAndCode(phoneNumber, code string) (*entity.OTPVerification, error) {
	var matches []*entity.OTPVerification
	for _, otp := range f.otps {
		if otp.PhoneNumber == phoneNumber && otp.Code == code &&
			otp.Status == entity.OTPStatusPending && otp.ExpiresAt.After(time.Now()) {
			matches = append(matches, otp)
		}
	}
	if len(matches) == 0 {
		return nil, nil
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	result := *matches[0]
	return &result, nil
}

func (f *fakeOTPRepo) MarkVerified(id int) error {
	for _, otp := range f.otps {
		if otp.ID == id && otp.Status == entity.OTPStatusPending {
			now := time.Now()
			otp.Status = entity.OTPStatusVerified
			otp.VerifiedAt = &now
			return nil
		}
	}
	return assert.AnError
}

func (f *fakeOTPRepo) DeleteExpired() (int64, error) {
	var kept []*entity.OTPVerification
	var deleted int64
	for _, otp := range f.otps {
		if otp.ExpiresAt.Before(time.Now()) {
			deleted++
			continue
		}
		kept = append(kept, otp)
	}
	f.otps = kept
	return deleted, nil
}

// fakeUserRepo is an in-memory UserRepository
type fakeUserRepo struct {
	users  map[string]*entity.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (f *fakeUserRepo) Create(user *entity.User) (*entity.User, error) {
	f.nextID++
	now := time.Now()
	stored := *user
	stored.ID = f.nextID
	stored.IsVerified = true
	stored.RegisteredAt = now
	stored.LastLoginAt = &now
	f.users[stored.PhoneNumber] = &stored
	result := stored
	return &result, nil
}

func (f *fakeUserRepo) GetByID(id int) (*entity.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			result := *user
			return &result, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByPhoneNumber(phoneNumber string) (*entity.User, error) {
	user, ok := f.users[phoneNumber]
	if !ok {
		return nil, nil
	}
	result := *user
	return &result, nil
}

func (f *fakeUserRepo) UpdateLastLogin(phoneNumber string) error {
	user, ok := f.users[phoneNumber]
	if !ok {
		return assert.AnError
	}
	now := time.Now()
	user.LastLoginAt = &now
	user.IsVerified = true
	return nil
}

func (f *fakeUserRepo) UpdateProfile(id int, name, email *string) (*entity.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			if name != nil {
				user.Name = name
			}
			if email != nil {
				user.Email = email
			}
			result := *user
			return &result, nil
		}
	}
	return nil, assert.AnError
}

// fakeRateLimitRepo is an in-memory RateLimitRepository
type fakeRateLimitRepo struct {
	counts map[string]int
}

func newFakeRateLimitRepo() *fakeRateLimitRepo {
	return &fakeRateLimitRepo{counts: make(map[string]int)}
}

func (f *fakeRateLimitRepo) Increment(phoneNumber string, window time.Duration) (int, error) {
	f.counts[phoneNumber]++
	return f.counts[phoneNumber], nil
}

func (f *fakeRateLimitRepo) Count(phoneNumber string) (int, error) {
	return f.counts[phoneNumber], nil
}

// fakeWhatsApp records dispatches and fails on demand
type fakeWhatsApp struct {
	err  error
	sent []string
}

func (f *fakeWhatsApp) SendOTP(phoneNumber, code string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, phoneNumber)
	return "msg-1", nil
}

func otpTestConfig(environment string) *config.Config {
	return &config.Config{
		Application: config.Application{Environment: environment},
		OTP: config.OTP{
			Length:          6,
			ExpirationTime:  10 * time.Minute,
			TestPhoneNumber: "+919999999999",
			TestCode:        "123456",
		},
		RateLimit: config.RateLimit{
			MaxRequests:    3,
			WindowDuration: time.Hour,
		},
	}
}

type otpFixture struct {
	service   OTPService
	otpRepo   *fakeOTPRepo
	userRepo  *fakeUserRepo
	rateLimit *fakeRateLimitRepo
	whatsapp  *fakeWhatsApp
}

func newOTPFixture(t *testing.T, environment string) *otpFixture {
	otpRepo := &fakeOTPRepo{}
	userRepo := newFakeUserRepo()
	rateLimit := newFakeRateLimitRepo()
	whatsapp := &fakeWhatsApp{}

	return &otpFixture{
		service:   NewOTPService(otpRepo, userRepo, rateLimit, whatsapp, otpTestConfig(environment), testLogger(t)),
		otpRepo:   otpRepo,
		userRepo:  userRepo,
		rateLimit: rateLimit,
		whatsapp:  whatsapp,
	}
}

func TestOTPService_Send(t *testing.T) {
	f := newOTPFixture(t, "development")

	response, err := f.service.Send("9876543210")
	require.NoError(t, err)

	assert.Equal(t, "+919876543210", response.PhoneNumber)
	assert.True(t, response.ExpiresAt.After(time.Now()))
	assert.Empty(t, response.Code, "code is never returned on a clean send")

	require.Len(t, f.otpRepo.otps, 1)
	assert.Equal(t, "+919876543210", f.otpRepo.otps[0].PhoneNumber)
	assert.Len(t, f.otpRepo.otps[0].Code, 6)
	assert.Equal(t, []string{"+919876543210"}, f.whatsapp.sent)
}

func TestOTPService_Send_RateLimitedInProduction(t *testing.T) {
	f := newOTPFixture(t, "production")

	for i := 0; i < 3; i++ {
		_, err := f.service.Send("+919876543210")
		require.NoError(t, err)
	}

	_, err := f.service.Send("+919876543210")
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestOTPService_Send_NoRateLimitInDevelopment(t *testing.T) {
	f := newOTPFixture(t, "development")

	for i := 0; i < 10; i++ {
		_, err := f.service.Send("+919876543210")
		require.NoError(t, err)
	}

	assert.Len(t, f.otpRepo.otps, 10)
}

func TestOTPService_Send_TestNumberSkipsDispatch(t *testing.T) {
	f := newOTPFixture(t, "production")

	response, err := f.service.Send("+919999999999")
	require.NoError(t, err)

	assert.Empty(t, f.whatsapp.sent, "dispatch must be skipped for the test number")
	assert.Empty(t, response.Code)
	require.Len(t, f.otpRepo.otps, 1)
	assert.Equal(t, "123456", f.otpRepo.otps[0].Code)
}

func TestOTPService_Send_ChannelNotConfiguredDegradesInDev(t *testing.T) {
	f := newOTPFixture(t, "development")
	f.whatsapp.err = &DispatchError{
		Kind:    DispatchErrorChannelNotConfigured,
		Status:  400,
		Message: "WhatsApp channel not connected",
	}

	response, err := f.service.Send("+919876543210")
	require.NoError(t, err)

	assert.Len(t, response.Code, 6, "dev mode hands the code back when the channel is down")
	assert.NotEmpty(t, response.Warning)
}

func TestOTPService_Send_ChannelNotConfiguredFailsInProduction(t *testing.T) {
	f := newOTPFixture(t, "production")
	f.whatsapp.err = &DispatchError{
		Kind:    DispatchErrorChannelNotConfigured,
		Status:  400,
		Message: "WhatsApp channel not connected",
	}

	_, err := f.service.Send("+919876543210")
	require.Error(t, err)

	dispatchErr, ok := err.(*DispatchError)
	require.True(t, ok)
	assert.Equal(t, DispatchErrorChannelNotConfigured, dispatchErr.Kind)
}

func TestOTPService_Send_OtherDispatchErrorsPropagate(t *testing.T) {
	f := newOTPFixture(t, "development")
	f.whatsapp.err = &DispatchError{
		Kind:    DispatchErrorCredentials,
		Status:  401,
		Message: "invalid api key",
	}

	_, err := f.service.Send("+919876543210")
	assert.Error(t, err)
}

func TestOTPService_Verify(t *testing.T) {
	f := newOTPFixture(t, "development")

	_, err := f.service.Send("+919876543210")
	require.NoError(t, err)
	code := f.otpRepo.otps[0].Code

	user, err := f.service.Verify("+919876543210", code)
	require.NoError(t, err)

	assert.Equal(t, "+919876543210", user.PhoneNumber)
	assert.True(t, user.IsVerified)
	assert.Equal(t, entity.OTPStatusVerified, f.otpRepo.otps[0].Status)
}

func TestOTPService_Verify_SecondAttemptFails(t *testing.T) {
	f := newOTPFixture(t, "development")

	_, err := f.service.Send("+919876543210")
	require.NoError(t, err)
	code := f.otpRepo.otps[0].Code

	_, err = f.service.Verify("+919876543210", code)
	require.NoError(t, err)

	// The record is now marked verified, so the same code fails
	_, err = f.service.Verify("+919876543210", code)
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestOTPService_Verify_MalformedCode(t *testing.T) {
	f := newOTPFixture(t, "development")

	testCases := []string{"12345", "1234567", "12a456", ""}
	for _, code := range testCases {
		_, err := f.service.Verify("+919876543210", code)
		assert.ErrorIs(t, err, ErrMalformedCode, "code %q must be rejected before any lookup", code)
	}

	assert.Empty(t, f.otpRepo.otps, "malformed codes never reach the store")
}

func TestOTPService_Verify_WrongCode(t *testing.T) {
	f := newOTPFixture(t, "development")

	_, err := f.service.Send("+919876543210")
	require.NoError(t, err)

	_, err = f.service.Verify("+919876543210", "000000")
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestOTPService_Verify_ExpiredCode(t *testing.T) {
	f := newOTPFixture(t, "development")

	f.otpRepo.Create(&entity.OTPVerification{
		PhoneNumber: "+919876543210",
		Code:        "654321",
		ExpiresAt:   time.Now().Add(-time.Minute),
	})

	_, err := f.service.Verify("+919876543210", "654321")
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestOTPService_Verify_TestNumberBypassesStore(t *testing.T) {
	f := newOTPFixture(t, "production")

	// No send happened; the fixed code still verifies
	user, err := f.service.Verify("+919999999999", "123456")
	require.NoError(t, err)
	assert.Equal(t, "+919999999999", user.PhoneNumber)

	// And it keeps verifying: store state is never consulted
	_, err = f.service.Verify("+919999999999", "123456")
	assert.NoError(t, err)

	// The wrong code still fails for the test number
	_, err = f.service.Verify("+919999999999", "000000")
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestOTPService_Verify_ExistingUserLastLoginRefreshed(t *testing.T) {
	f := newOTPFixture(t, "development")

	earlier := time.Now().Add(-time.Hour)
	f.userRepo.users["+919876543210"] = &entity.User{
		ID:          7,
		PhoneNumber: "+919876543210",
		LastLoginAt: &earlier,
	}
	f.userRepo.nextID = 7

	_, err := f.service.Send("+919876543210")
	require.NoError(t, err)
	code := f.otpRepo.otps[0].Code

	user, err := f.service.Verify("+919876543210", code)
	require.NoError(t, err)

	assert.Equal(t, 7, user.ID, "existing user is reused, not recreated")
	require.NotNil(t, user.LastLoginAt)
	assert.True(t, user.LastLoginAt.After(earlier))
}

func TestOTPService_Verify_MostRecentRecordWins(t *testing.T) {
	f := newOTPFixture(t, "development")

	f.otpRepo.Create(&entity.OTPVerification{
		PhoneNumber: "+919876543210",
		Code:        "111111",
		ExpiresAt:   time.Now().Add(10 * time.Minute),
	})
	f.otpRepo.otps[0].CreatedAt = time.Now().Add(-time.Minute)

	f.otpRepo.Create(&entity.OTPVerification{
		PhoneNumber: "+919876543210",
		Code:        "111111",
		ExpiresAt:   time.Now().Add(10 * time.Minute),
	})

	_, err := f.service.Verify("+919876543210", "111111")
	require.NoError(t, err)

	assert.Equal(t, entity.OTPStatusVerified, f.otpRepo.otps[1].Status, "the newest matching record is consumed")
	assert.Equal(t, entity.OTPStatusPending, f.otpRepo.otps[0].Status, "older pending records stay checkable")
}

func TestOTPService_CleanupExpired(t *testing.T) {
	f := newOTPFixture(t, "development")

	f.otpRepo.Create(&entity.OTPVerification{
		PhoneNumber: "+919876543210",
		Code:        "111111",
		ExpiresAt:   time.Now().Add(-time.Minute),
	})
	f.otpRepo.Create(&entity.OTPVerification{
		PhoneNumber: "+919876543210",
		Code:        "222222",
		ExpiresAt:   time.Now().Add(10 * time.Minute),
	})

	err := f.service.CleanupExpired()
	require.NoError(t, err)

	assert.Len(t, f.otpRepo.otps, 1)
	assert.Equal(t, "222222", f.otpRepo.otps[0].Code)
}
