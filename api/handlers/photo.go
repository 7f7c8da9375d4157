package handlers

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/roadwatch/accident-tracker-api/api"
	"github.com/roadwatch/accident-tracker-api/config"
	"github.com/roadwatch/accident-tracker-api/databases"
)

// Photo exported for testing purposes
type Photo struct {
	RDB databases.AccidentReportDatabase
}

// GenerateSignature generates a signature for direct Cloudinary uploads from
// the mobile client
func (p Photo) GenerateSignature(w http.ResponseWriter, r *http.Request) {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	uploadPreset := os.Getenv("CLOUDINARY_UPLOAD_PRESET")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")

	// Create the signature
	h := hmac.New(sha1.New, []byte(apiSecret))
	h.Write([]byte("timestamp=" + timestamp + "&upload_preset=" + uploadPreset))
	signature := hex.EncodeToString(h.Sum(nil))

	// Respond with the timestamp and signature
	response := map[string]string{
		"timestamp": timestamp,
		"signature": signature,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// UploadPhotoHandler uploads an accident photo from a multipart form to
// Cloudinary and stores the resulting URL on the report
func (p Photo) UploadPhotoHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	reportID := mux.Vars(r)["report_id"]

	rID, err := primitive.ObjectIDFromHex(reportID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		config.ErrorStatus("failed to read photo from form", http.StatusBadRequest, w, err)
		return
	}
	defer file.Close()

	cld, err := cloudinary.New()
	if err != nil {
		config.ErrorStatus("failed to create cloudinary client", http.StatusInternalServerError, w, err)
		return
	}

	uploadResp, err := cld.Upload.Upload(r.Context(), file, uploader.UploadParams{
		Folder:   "accident-reports",
		PublicID: reportID,
	})
	if err != nil {
		config.ErrorStatus("failed to upload photo", http.StatusInternalServerError, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	_, err = p.RDB.UpdateOne(ctx,
		bson.M{"_id": rID},
		bson.M{"$set": bson.M{"photoUrl": uploadResp.SecureURL}},
	)
	if err != nil {
		config.ErrorStatus("failed to update report photo", http.StatusInternalServerError, w, err)
		return
	}

	zap.S().Debugf("uploaded photo for report: %v", reportID)

	b, err := json.Marshal(map[string]string{"photoUrl": uploadResp.SecureURL})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
