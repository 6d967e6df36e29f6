package expense

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

var _ = Describe("LocalStorage", func() {
	var (
		tmpDir  string
		storage Storage
		ctx     context.Context
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		var err error
		storage, err = NewLocalStorage(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
	})

	Describe("Save", func() {
		It("should write the file and return its name", func() {
			savedPath, err := storage.Save(ctx, "test.jpg", []byte("content"), "image/jpeg")
			Expect(err).NotTo(HaveOccurred())
			Expect(savedPath).To(Equal("test.jpg"))
			Expect(filepath.Join(tmpDir, "test.jpg")).To(BeAnExistingFile())
		})

		It("should stay inside the base directory", func() {
			savedPath, err := storage.Save(ctx, "../escape.jpg", []byte("content"), "image/jpeg")
			Expect(err).NotTo(HaveOccurred())
			Expect(savedPath).To(Equal("escape.jpg"))
			Expect(filepath.Join(tmpDir, "escape.jpg")).To(BeAnExistingFile())
		})
	})

	Describe("Get", func() {
		It("should read a saved file", func() {
			_, err := storage.Save(ctx, "test.pdf", []byte("%PDF"), "application/pdf")
			Expect(err).NotTo(HaveOccurred())

			data, err := storage.Get(ctx, "test.pdf")
			Expect(err).NotTo(HaveOccurred())
			Expect(data).To(Equal([]byte("%PDF")))
		})

		It("should fail for a missing file", func() {
			_, err := storage.Get(ctx, "missing.jpg")
			Expect(err).To(MatchError(ContainSubstring("reading file")))
		})
	})

	Describe("Delete", func() {
		It("should remove a saved file", func() {
			_, err := storage.Save(ctx, "test.jpg", []byte("content"), "image/jpeg")
			Expect(err).NotTo(HaveOccurred())

			Expect(storage.Delete(ctx, "test.jpg")).To(Succeed())
			Expect(filepath.Join(tmpDir, "test.jpg")).NotTo(BeAnExistingFile())
		})

		It("should fail for a missing file", func() {
			Expect(storage.Delete(ctx, "missing.jpg")).To(MatchError(ContainSubstring("deleting file")))
		})
	})
})

var _ = Describe("MinIOStorage", func() {
	var (
		server  *ghttp.Server
		storage *MinIOStorage
		ctx     context.Context
	)

	newClient := func() *minio.Client {
		client, err := minio.New(strings.TrimPrefix(server.URL(), "http://"), &minio.Options{
			Creds:  credentials.NewStaticV4("access", "secret", ""),
			Region: "us-east-1",
		})
		Expect(err).NotTo(HaveOccurred())
		return client
	}

	BeforeEach(func() {
		server = ghttp.NewServer()
		storage = newMinIOStorage(newClient(), "receipts", "/expenses/", func() time.Time { return testNow })
		ctx = context.Background()
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("Save", func() {
		When("the upload succeeds", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.CombineHandlers(
					ghttp.VerifyRequest(http.MethodPut, "/receipts/expenses/2025/06/id-1_receipt.jpg"),
					ghttp.VerifyHeaderKV("Content-Type", "image/jpeg"),
					ghttp.RespondWith(http.StatusOK, "", http.Header{"ETag": []string{`"d41d8cd98f00b204e9800998ecf8427e"`}}),
				))
			})

			It("should lay the object out by year and month", func() {
				objectName, err := storage.Save(ctx, "id-1_receipt.jpg", []byte("photo"), "image/jpeg")
				Expect(err).NotTo(HaveOccurred())
				Expect(objectName).To(Equal("expenses/2025/06/id-1_receipt.jpg"))
			})
		})

		When("the bucket rejects the upload", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.RespondWith(http.StatusForbidden,
					`<?xml version="1.0" encoding="UTF-8"?><Error><Code>AccessDenied</Code><Message>Access Denied.</Message></Error>`,
					http.Header{"Content-Type": []string{"application/xml"}}))
			})

			It("should return the error", func() {
				_, err := storage.Save(ctx, "id-1_receipt.jpg", []byte("photo"), "image/jpeg")
				Expect(err).To(MatchError(ContainSubstring("uploading file")))
			})
		})
	})

	Describe("Delete", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest(http.MethodDelete, "/receipts/expenses/2025/06/id-1_receipt.jpg"),
				ghttp.RespondWith(http.StatusNoContent, ""),
			))
		})

		It("should remove the object", func() {
			Expect(storage.Delete(ctx, "expenses/2025/06/id-1_receipt.jpg")).To(Succeed())
			Expect(server.ReceivedRequests()).To(HaveLen(1))
		})
	})

	Describe("NewMinIOStorage", func() {
		var (
			cfg MinIOConfig
			err error
		)

		BeforeEach(func() {
			cfg = MinIOConfig{
				Endpoint:  strings.TrimPrefix(server.URL(), "http://"),
				AccessKey: "access",
				SecretKey: "secret",
				Bucket:    "receipts",
				Region:    "us-east-1",
			}
		})

		JustBeforeEach(func() {
			_, err = NewMinIOStorage(ctx, cfg)
		})

		When("the bucket exists", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.CombineHandlers(
					func(w http.ResponseWriter, r *http.Request) {
						Expect(r.Method).To(Equal(http.MethodHead))
						Expect(r.URL.Path).To(HavePrefix("/receipts"))
					},
					ghttp.RespondWith(http.StatusOK, ""),
				))
			})

			It("should connect", func() {
				Expect(err).NotTo(HaveOccurred())
			})
		})

		When("the bucket is missing", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.RespondWith(http.StatusNotFound, ""))
			})

			It("should refuse to start", func() {
				Expect(err).To(MatchError("bucket receipts does not exist"))
			})
		})
	})
})
