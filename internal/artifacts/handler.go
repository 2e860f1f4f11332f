// Package artifacts serves the Groth16 keys so attendees can prove on their own devices.
package artifacts

import (
	"net/http"

	dtocommon "fairpass/pkg/dto_common"
	"fairpass/pkg/zkp"

	"github.com/gin-gonic/gin"
)

const (
	DigestHeader = "X-Artifact-Digest"
	octetStream  = "application/octet-stream"
)

type Handler struct {
	info dtocommon.ArtifactsDto
	vk   []byte
	pk   []byte
}

// NewHandler serializes both keys once; they never change for the life of the process.
func NewHandler(keys *zkp.Keys) (*Handler, error) {
	vk, err := keys.VerifyingKeyBytes()
	if err != nil {
		return nil, err
	}
	pk, err := keys.ProvingKeyBytes()
	if err != nil {
		return nil, err
	}

	return &Handler{
		info: dtocommon.ArtifactsDto{
			Depth:              keys.Depth,
			Curve:              zkp.ElipticalCurveID.String(),
			ProvingKeyDigest:   zkp.Digest(pk),
			VerifyingKeyDigest: zkp.Digest(vk),
		},
		vk: vk,
		pk: pk,
	}, nil
}

// GetArtifacts godoc
// @Summary      Circuit artifacts
// @Description  Tree depth, curve and sha256 digests of the membership circuit keys
// @Tags         Artifacts
// @Produce      json
// @Success      200  {object}  dtocommon.ArtifactsDto
// @Router       /v1/artifacts [get]
func (h *Handler) GetArtifacts(c *gin.Context) {
	c.JSON(http.StatusOK, h.info)
}

// GetVK godoc
// @Summary      Verifying key
// @Tags         Artifacts
// @Produce      octet-stream
// @Success      200  {file}  binary
// @Router       /v1/artifacts/vk [get]
func (h *Handler) GetVK(c *gin.Context) {
	c.Header(DigestHeader, h.info.VerifyingKeyDigest)
	c.Data(http.StatusOK, octetStream, h.vk)
}

// GetPK godoc
// @Summary      Proving key
// @Tags         Artifacts
// @Produce      octet-stream
// @Success      200  {file}  binary
// @Router       /v1/artifacts/pk [get]
func (h *Handler) GetPK(c *gin.Context) {
	c.Header(DigestHeader, h.info.ProvingKeyDigest)
	c.Data(http.StatusOK, octetStream, h.pk)
}
