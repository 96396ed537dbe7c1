package handlers

import (
	"net/http"

	"panic-buying/internal/api/models"
	"panic-buying/internal/usage"

	"github.com/gin-gonic/gin"
)

// ListPolicies handles GET /api/v1/policies
func ListPolicies(c *gin.Context) {
	catalog := usage.Catalog()
	policies := make([]models.PolicyInfo, 0, len(catalog))
	for _, info := range catalog {
		params := make([]models.ParameterInfo, 0, len(info.Parameters))
		for _, p := range info.Parameters {
			params = append(params, models.ParameterInfo{
				Name:        p.Name,
				Type:        p.Type,
				Description: p.Description,
				Default:     p.Default,
			})
		}
		policies = append(policies, models.PolicyInfo{
			Name:        info.Name,
			Description: info.Description,
			Parameters:  params,
		})
	}
	c.JSON(http.StatusOK, gin.H{"policies": policies})
}
