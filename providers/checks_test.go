package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	geoerrors "github.com/kbukum/geokit/errors"
	"github.com/kbukum/geokit/httpclient"
)

func TestCheckHooks(t *testing.T) {
	tests := []struct {
		name  string
		check func(httpclient.Document) error
		body  string
		want  geoerrors.ErrorCode
	}{
		{"google ok", googleCheck, `{"status": "OK"}`, ""},
		{"google zero results", googleCheck, `{"status": "ZERO_RESULTS"}`, ""},
		{"google daily limit", googleCheck, `{"status": "OVER_DAILY_LIMIT"}`, geoerrors.ErrCodeRateLimited},
		{"geonames no result", geonamesCheck, `{"status": {"value": 15, "message": "no result"}}`, ""},
		{"geonames bad user", geonamesCheck, `{"status": {"value": 10, "message": "user does not exist"}}`, geoerrors.ErrCodeAuth},
		{"geonames credits", geonamesCheck, `{"status": {"value": 19, "message": "hourly limit"}}`, geoerrors.ErrCodeRateLimited},
		{"geonames other", geonamesCheck, `{"status": {"value": 14, "message": "invalid parameter"}}`, geoerrors.ErrCodeRequestFailed},
		{"geonames plain", geonamesCheck, `{"geonames": []}`, ""},
		{"esri ok", esriCheck(ArcGIS), `{"locations": []}`, ""},
		{"esri token", esriCheck(ArcGIS), `{"error": {"code": 498, "message": "Invalid token"}}`, geoerrors.ErrCodeAuth},
		{"esri miss", esriCheck(ArcGIS), `{"error": {"code": 400, "message": "Cannot perform query", "details": ["Unable to find address for the specified location."]}}`, ""},
		{"esri server", esriCheck(Ottawa), `{"error": {"code": 500, "message": "boom"}}`, geoerrors.ErrCodeProviderUnavailable},
		{"mapquest ok", mapquestCheck, `{"info": {"statuscode": 0}}`, ""},
		{"mapquest key", mapquestCheck, `{"info": {"statuscode": 403, "messages": ["bad key"]}}`, geoerrors.ErrCodeAuth},
		{"mapquest input", mapquestCheck, `{"info": {"statuscode": 400, "messages": ["Illegal argument"]}}`, geoerrors.ErrCodeRequestFailed},
		{"baidu ok", baiduCheck, `{"status": 0, "result": {}}`, ""},
		{"baidu ak", baiduCheck, `{"status": 200, "message": "APP不存在"}`, geoerrors.ErrCodeAuth},
		{"baidu quota", baiduCheck, `{"status": 302, "message": "天配额超限"}`, geoerrors.ErrCodeRateLimited},
		{"baidu params", baiduCheck, `{"status": 2, "message": "Parameter Invalid"}`, geoerrors.ErrCodeRequestFailed},
		{"gaode ok", gaodeCheck, `{"status": "1", "info": "OK"}`, ""},
		{"gaode key", gaodeCheck, `{"status": "0", "info": "INVALID_USER_KEY", "infocode": "10001"}`, geoerrors.ErrCodeAuth},
		{"gaode daily", gaodeCheck, `{"status": "0", "info": "DAILY_QUERY_OVER_LIMIT", "infocode": "10003"}`, geoerrors.ErrCodeRateLimited},
		{"tamu ok", tamuCheck, `{"QueryStatusCodeValue": "200"}`, ""},
		{"tamu key", tamuCheck, `{"QueryStatusCodeValue": "401", "QueryStatusCode": "APIKeyInvalid"}`, geoerrors.ErrCodeAuth},
		{"w3w words", w3wCheck, `{"error": {"code": "BadWords", "message": "words must be three words"}}`, geoerrors.ErrCodeRequestFailed},
		{"w3w quota", w3wCheck, `{"error": {"code": "QuotaExceeded"}}`, geoerrors.ErrCodeRateLimited},
		{"farm none", geocodefarmCheck, `{"geocoding_results": {"STATUS": {"status": "FAILED, NO_RESULTS"}}}`, ""},
		{"farm denied", geocodefarmCheck, `{"geocoding_results": {"STATUS": {"status": "FAILED, ACCESS_DENIED"}}}`, geoerrors.ErrCodeAuth},
		{"farm limit", geocodefarmCheck, `{"geocoding_results": {"STATUS": {"status": "FAILED, OVER_QUERY_LIMIT"}}}`, geoerrors.ErrCodeRateLimited},
		{"geolytica none", geolyticaCheck, `{"geodata": {"error": {"code": "008", "description": "no result"}}}`, ""},
		{"geolytica auth", geolyticaCheck, `{"geodata": {"error": {"code": "003", "description": "Authentication token not found"}}}`, geoerrors.ErrCodeAuth},
		{"geolytica throttle", geolyticaCheck, `{"geodata": {"error": {"code": "006", "description": "Request Throttled"}}}`, geoerrors.ErrCodeRateLimited},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check(httpclient.Document(tt.body))
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, geoerrors.HasCode(err, tt.want), "got %v", err)
		})
	}
}
