package controller

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createConsultation(t *testing.T, s *testServer, cookie string, req ConsultationRequest) string {
	t.Helper()
	w := s.do(t, "POST", "/crm/consultations", cookie, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["consultation"].(map[string]interface{})["id"].(string)
}

func TestConsultationController_CreateRequiresName(t *testing.T) {
	s := setupControllerTest(t)
	cookie, _ := s.signupOwner(t, "owner1", "강남점")

	w := s.do(t, "POST", "/crm/consultations", cookie, ConsultationRequest{Phone: "010-1111-2222"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "고객명은 필수입니다", decode(t, w)["fields"].(map[string]interface{})["name"])
}

func TestConsultationController_RequiresSession(t *testing.T) {
	s := setupControllerTest(t)

	w := s.do(t, "GET", "/crm/consultations", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestConsultationController_ListAndPatch(t *testing.T) {
	s := setupControllerTest(t)
	cookie, shopID := s.signupOwner(t, "owner1", "강남점")

	id := createConsultation(t, s, cookie, ConsultationRequest{
		Name:             "홍길동",
		Phone:            "010-1111-2222",
		ConsultationDate: "2024-05-01",
	})
	createConsultation(t, s, cookie, ConsultationRequest{Name: "김영희", ConsultationDate: "2024-06-01"})

	w := s.do(t, "GET", "/crm/consultations?from=2024-05-01&to=2024-05-31", cookie, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, float64(1), resp["total"])

	w = s.do(t, "PATCH", "/crm/consultations/"+id, cookie, ConsultationPatchRequest{ProductName: strPtr("Galaxy S24")})
	require.Equal(t, http.StatusOK, w.Code)
	item := decode(t, w)["consultation"].(map[string]interface{})
	assert.Equal(t, "Galaxy S24", item["product_name"])
	assert.Equal(t, shopID, item["shop_id"])

	w = s.do(t, "PATCH", "/crm/consultations/"+id, cookie, map[string]string{"activation_status": "△"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, "PATCH", "/crm/consultations/"+id, cookie, map[string]string{"activation_status": "Y"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConsultationController_OtherShopIsHidden(t *testing.T) {
	s := setupControllerTest(t)
	ownerA, _ := s.signupOwner(t, "ownerA", "강남점")
	ownerB, shopB := s.signupOwner(t, "ownerB", "부산점")

	id := createConsultation(t, s, ownerB, ConsultationRequest{Name: "부산 고객"})

	w := s.do(t, "GET", "/crm/consultations/"+id, ownerA, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "CRM_CONSULTATION_NOT_FOUND", decode(t, w)["error"])

	w = s.do(t, "GET", "/crm/consultations?shop_id="+shopB, ownerA, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestConsultationController_IgnoresRoleHeaders(t *testing.T) {
	s := setupControllerTest(t)
	_, shopB := s.signupOwner(t, "ownerB", "부산점")
	ownerA, _ := s.signupOwner(t, "ownerA", "강남점")

	w := s.doWithHeaders(t, "GET", "/crm/consultations?shop_id="+shopB, ownerA, map[string]string{
		"x-user-role":    "super_admin",
		"x-user-shop-id": shopB,
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestConsultationController_MoveToReport(t *testing.T) {
	s := setupControllerTest(t)
	cookie, _ := s.signupOwner(t, "owner1", "강남점")

	pending := createConsultation(t, s, cookie, ConsultationRequest{Name: "대기 고객", ActivationStatus: "X"})
	w := s.do(t, "POST", "/crm/consultations/"+pending+"/move-to-report", cookie, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "CRM_NOT_ACTIVATED", decode(t, w)["error"])

	done := createConsultation(t, s, cookie, ConsultationRequest{
		Name:             "개통 고객",
		Phone:            "010-5555-6666",
		ProductName:      "iPhone 15",
		SalesPerson:      "김철수",
		ActivationStatus: "O",
	})

	w = s.do(t, "POST", "/crm/consultations/"+done+"/move-to-report", cookie, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	report := decode(t, w)["report"].(map[string]interface{})
	assert.Equal(t, "개통 고객", report["name"])
	assert.Equal(t, "김철수", report["sales_person"])

	w = s.do(t, "PATCH", "/crm/consultations/"+done, cookie, map[string]string{"activation_status": "O"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, "POST", "/crm/consultations/"+done+"/move-to-report", cookie, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CRM_ALREADY_MOVED", decode(t, w)["error"])

	w = s.do(t, "GET", "/reports", cookie, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["total"])
}

func strPtr(s string) *string {
	return &s
}
