package dto

type SettingRequest struct {
	Value string `json:"value"`
}

type BulkSettingsItem struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type BulkSettingsRequest struct {
	Items []BulkSettingsItem `json:"items"`
}
