// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

//go:build integration

package integration_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/librarium/librarium/internal/auth"
	"github.com/librarium/librarium/internal/httpapi"
)

type apiError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

type apiResponse struct {
	Status int
	Header http.Header
	Data   json.RawMessage `json:"data"`
	Error  *apiError       `json:"error"`
}

func call(method, path string, body any, token string) apiResponse {
	GinkgoHelper()
	var buf bytes.Buffer
	if body != nil {
		Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
	}
	req, err := http.NewRequestWithContext(env.ctx, method, env.server.URL+httpapi.BasePath+path, &buf)
	Expect(err).NotTo(HaveOccurred())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := env.server.Client().Do(req)
	Expect(err).NotTo(HaveOccurred())
	defer resp.Body.Close()

	out := apiResponse{Status: resp.StatusCode, Header: resp.Header}
	Expect(json.NewDecoder(resp.Body).Decode(&out)).To(Succeed())
	return out
}

func session(r apiResponse) auth.AuthResult {
	GinkgoHelper()
	var result auth.AuthResult
	Expect(json.Unmarshal(r.Data, &result)).To(Succeed())
	return result
}

func registerUser(email, password string) auth.AuthResult {
	GinkgoHelper()
	resp := call(http.MethodPost, "/register", map[string]string{
		"name": "Alice", "email": email, "password": password,
	}, "")
	Expect(resp.Status).To(Equal(http.StatusCreated))
	return session(resp)
}

func lastResetToken() string {
	GinkgoHelper()
	sent, ok := env.notifier.Last()
	Expect(ok).To(BeTrue())
	u, err := url.Parse(sent.Link)
	Expect(err).NotTo(HaveOccurred())
	return u.Query().Get("token")
}

var _ = Describe("Auth API", func() {
	BeforeEach(func() {
		env.truncate()
	})

	Describe("registration and login", func() {
		It("issues a session that verifies", func() {
			reg := registerUser("Alice@Gmail.com", "Sup3rSecret!")
			Expect(reg.User.Email).To(Equal("alice@gmail.com"))
			Expect(reg.User.Role).To(Equal(auth.RoleUser))

			verify := call(http.MethodPost, "/verify", nil, reg.Token)
			Expect(verify.Status).To(Equal(http.StatusOK))

			login := call(http.MethodPost, "/login", map[string]string{
				"email": "alice@gmail.com", "password": "Sup3rSecret!",
			}, "")
			Expect(login.Status).To(Equal(http.StatusOK))
			Expect(login.Header.Values("Set-Cookie")).To(ContainElement(HavePrefix(cookieName + "=")))
		})

		It("rejects a duplicate email regardless of case", func() {
			registerUser("alice@gmail.com", "Sup3rSecret!")
			resp := call(http.MethodPost, "/register", map[string]string{
				"name": "Other", "email": "ALICE@gmail.com", "password": "An0therSecret",
			}, "")
			Expect(resp.Status).To(Equal(http.StatusConflict))
			Expect(resp.Error.Code).To(Equal(auth.CodeConflict))
		})

		It("answers unknown email and wrong password identically", func() {
			registerUser("alice@gmail.com", "Sup3rSecret!")

			wrong := call(http.MethodPost, "/login", map[string]string{
				"email": "alice@gmail.com", "password": "nope-nope",
			}, "")
			unknown := call(http.MethodPost, "/login", map[string]string{
				"email": "bob@gmail.com", "password": "nope-nope",
			}, "")

			Expect(wrong.Status).To(Equal(http.StatusUnauthorized))
			Expect(unknown.Status).To(Equal(wrong.Status))
			Expect(unknown.Error).To(Equal(wrong.Error))
		})
	})

	Describe("password change", func() {
		It("replaces the password", func() {
			reg := registerUser("alice@gmail.com", "Sup3rSecret!")

			resp := call(http.MethodPost, "/change-password", map[string]string{
				"currentPassword": "Sup3rSecret!", "newPassword": "N3wSecret!!",
			}, reg.Token)
			Expect(resp.Status).To(Equal(http.StatusOK))

			old := call(http.MethodPost, "/login", map[string]string{
				"email": "alice@gmail.com", "password": "Sup3rSecret!",
			}, "")
			Expect(old.Status).To(Equal(http.StatusUnauthorized))

			fresh := call(http.MethodPost, "/login", map[string]string{
				"email": "alice@gmail.com", "password": "N3wSecret!!",
			}, "")
			Expect(fresh.Status).To(Equal(http.StatusOK))
		})
	})

	Describe("password reset", func() {
		It("redeems a token exactly once", func() {
			registerUser("alice@gmail.com", "Sup3rSecret!")

			forgot := call(http.MethodPost, "/forgot-password", map[string]string{"email": "alice@gmail.com"}, "")
			Expect(forgot.Status).To(Equal(http.StatusOK))
			token := lastResetToken()
			Expect(token).To(HaveLen(64))

			var stored int
			Expect(env.pool.QueryRow(env.ctx,
				"SELECT COUNT(*) FROM credentials WHERE reset_token_hash = $1", token).Scan(&stored)).To(Succeed())
			Expect(stored).To(BeZero(), "plaintext token must not be stored")

			first := call(http.MethodPost, "/reset-password", map[string]string{
				"token": token, "newPassword": "Res3tSecret!",
			}, "")
			Expect(first.Status).To(Equal(http.StatusOK))

			second := call(http.MethodPost, "/reset-password", map[string]string{
				"token": token, "newPassword": "Oth3rSecret!",
			}, "")
			Expect(second.Status).To(Equal(http.StatusBadRequest))
			Expect(second.Error.Code).To(Equal(auth.CodeInvalidOrExpiredToken))

			login := call(http.MethodPost, "/login", map[string]string{
				"email": "alice@gmail.com", "password": "Res3tSecret!",
			}, "")
			Expect(login.Status).To(Equal(http.StatusOK))
		})

		It("lets only one concurrent redemption win", func() {
			registerUser("alice@gmail.com", "Sup3rSecret!")
			call(http.MethodPost, "/forgot-password", map[string]string{"email": "alice@gmail.com"}, "")
			token := lastResetToken()

			const racers = 5
			statuses := make([]int, racers)
			var wg sync.WaitGroup
			for i := range racers {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					statuses[i] = call(http.MethodPost, "/reset-password", map[string]string{
						"token": token, "newPassword": "Res3tSecret!",
					}, "").Status
				}()
			}
			wg.Wait()

			Expect(statuses).To(ContainElement(http.StatusOK))
			ok := 0
			for _, s := range statuses {
				if s == http.StatusOK {
					ok++
				}
			}
			Expect(ok).To(Equal(1))
		})

		It("limits requests per email", func() {
			registerUser("alice@gmail.com", "Sup3rSecret!")
			before := len(env.notifier.Sent())

			for range auth.ResetAttemptLimit {
				resp := call(http.MethodPost, "/forgot-password", map[string]string{"email": "alice@gmail.com"}, "")
				Expect(resp.Status).To(Equal(http.StatusOK))
			}

			limited := call(http.MethodPost, "/forgot-password", map[string]string{"email": "alice@gmail.com"}, "")
			Expect(limited.Status).To(Equal(http.StatusTooManyRequests))
			Expect(limited.Error.Code).To(Equal(auth.CodeTooManyRequests))
			Expect(limited.Header.Get("Retry-After")).NotTo(BeEmpty())
			Expect(env.notifier.Sent()).To(HaveLen(before + auth.ResetAttemptLimit))
		})

		It("answers unknown emails with the generic message", func() {
			resp := call(http.MethodPost, "/forgot-password", map[string]string{"email": "ghost@gmail.com"}, "")
			Expect(resp.Status).To(Equal(http.StatusOK))
			Expect(string(resp.Data)).To(ContainSubstring(auth.ForgotPasswordMessage))
		})
	})

	Describe("deactivation", func() {
		It("invalidates outstanding sessions", func() {
			reg := registerUser("alice@gmail.com", "Sup3rSecret!")
			Expect(env.service.Deactivate(env.ctx, reg.User.ID)).To(Succeed())

			verify := call(http.MethodPost, "/verify", nil, reg.Token)
			Expect(verify.Status).To(Equal(http.StatusUnauthorized))

			again := call(http.MethodPost, "/register", map[string]string{
				"name": "Alice", "email": "alice@gmail.com", "password": "Sup3rSecret!",
			}, "")
			Expect(again.Status).To(Equal(http.StatusCreated), "deactivated rows release their email")
		})
	})
})
