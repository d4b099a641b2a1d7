package service

import "github.com/takhirov/menukeeper/models"

// buildUpload produces the normalized field set transmitted to the remote
// origin. Required-but-empty fields are filled with their documented
// defaults so transmission never fails purely on missing optional data.
// Repeated retries of the same item therefore produce identical requests.
func buildUpload(item models.MenuItem) models.MenuItemUpload {
	upload := models.MenuItemUpload{
		LocalID:     item.LocalID,
		OwnerID:     item.OwnerID,
		CategoryID:  item.CategoryID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		OfferPrice:  item.OfferPrice,
		SpiceLevel:  item.SpiceLevel,
		Dietary:     item.Dietary,
		Status:      item.Status,
	}

	if item.ServerID != nil {
		upload.ServerID = *item.ServerID
	}
	if upload.SpiceLevel == "" {
		upload.SpiceLevel = models.DefaultSpiceLevel
	}
	if upload.Dietary == "" {
		upload.Dietary = models.DefaultDietary
	}
	if upload.Status == "" {
		upload.Status = models.DefaultStatus
	}
	if upload.Price == "" {
		upload.Price = models.DefaultPrice
	}

	for _, img := range item.Images {
		upload.Images = append(upload.Images, models.ImageUpload{
			Ref:      img.Ref,
			Position: img.Position,
		})
	}

	return upload
}
