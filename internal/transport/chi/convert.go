package chi

import (
	"github.com/kailas-cloud/localdex/internal/domain/entity"
	"github.com/kailas-cloud/localdex/internal/domain/refid"
	"github.com/kailas-cloud/localdex/internal/transport/api"
)

func draftFromRequest(req *api.EntityRequest) entity.Draft {
	return entity.Draft{
		Name:        req.Name,
		Category:    req.Category,
		Brand:       req.Brand,
		Tags:        req.Tags,
		Description: req.Description,
		District:    req.District,
		Location:    req.Location,
		Price:       req.Price,
		Featured:    req.Featured,
		Active:      req.Active,
		ImageURL:    req.ImageURL,
		Attributes:  req.Attributes,
	}
}

func entityToResponse(rec *entity.Record) api.EntityResponse {
	return api.EntityResponse{
		ReferenceID: string(rec.ReferenceID()),
		Kind:        rec.Kind().String(),
		Route:       refid.RoutePath(string(rec.ReferenceID())),
		Name:        rec.Name(),
		Category:    rec.Category(),
		Brand:       rec.Brand(),
		Tags:        rec.Tags(),
		Description: rec.Description(),
		District:    rec.District(),
		Location:    rec.Location(),
		Price:       rec.Price(),
		Featured:    rec.Featured(),
		Active:      rec.Active(),
		ImageURL:    rec.ImageURL(),
		Attributes:  rec.Attributes(),
		CreatedAt:   rec.CreatedAt(),
	}
}
