package controllers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"nh360fastag/database"
)

// loadAgents fetches every user whose role can appear in the hierarchy,
// optionally narrowed to specific roles
func loadAgents(roles []string) ([]database.User, error) {
	query := database.DB.Preload("Parent").Order("id")
	if len(roles) > 0 {
		query = query.Where("role IN ?", roles)
	} else {
		query = query.Where("role IN ?", database.AgentRoles)
	}

	var agents []database.User
	if err := query.Find(&agents).Error; err != nil {
		return nil, err
	}
	for i := range agents {
		agents[i].PasswordHash = ""
		if agents[i].Parent != nil {
			agents[i].Parent.PasswordHash = ""
		}
	}
	return agents, nil
}

// GetAgents returns the agent list, optionally filtered by ?roles=a,b,c
func GetAgents(c *gin.Context) {
	var roles []string
	if rolesParam := c.Query("roles"); rolesParam != "" {
		for _, r := range strings.Split(rolesParam, ",") {
			r = strings.TrimSpace(r)
			if r == "" {
				continue
			}
			if !database.IsAgentRole(r) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown agent role: " + r})
				return
			}
			roles = append(roles, r)
		}
	}

	agents, err := loadAgents(roles)
	if err != nil {
		log.Printf("Error fetching agents: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch agents"})
		return
	}

	c.JSON(http.StatusOK, agents)
}

// GetAgentHierarchy returns the subtree rooted at one agent with FASTag
// counts aggregated through every descendant
func GetAgentHierarchy(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid agent ID"})
		return
	}

	agents, err := loadAgents(nil)
	if err != nil {
		log.Printf("Error fetching agents: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch agents"})
		return
	}

	counts, err := database.AgentTagCounts()
	if err != nil {
		log.Printf("Error counting FASTags: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate FASTag counts"})
		return
	}

	forest := database.BuildAgentForest(agents, counts)
	node := forest.Node(uint(id))
	if node == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
		return
	}

	resp := gin.H{"hierarchy": node}
	if len(forest.CycleIDs) > 0 {
		log.Printf("⚠️ Agent hierarchy contains cycles involving ids %v", forest.CycleIDs)
		resp["cycle_ids"] = forest.CycleIDs
	}
	c.JSON(http.StatusOK, resp)
}

// GetAgentForest returns the whole hierarchy as a forest of roots
func GetAgentForest(c *gin.Context) {
	agents, err := loadAgents(nil)
	if err != nil {
		log.Printf("Error fetching agents: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch agents"})
		return
	}

	counts, err := database.AgentTagCounts()
	if err != nil {
		log.Printf("Error counting FASTags: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate FASTag counts"})
		return
	}

	forest := database.BuildAgentForest(agents, counts)
	resp := gin.H{"roots": forest.Roots}
	if len(forest.CycleIDs) > 0 {
		log.Printf("⚠️ Agent hierarchy contains cycles involving ids %v", forest.CycleIDs)
		resp["cycle_ids"] = forest.CycleIDs
	}
	c.JSON(http.StatusOK, resp)
}

// AgentStatusRequest toggles an agent between active and inactive
type AgentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active inactive"`
}

// UpdateAgentStatus activates or deactivates an agent
func UpdateAgentStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid agent ID"})
		return
	}

	var req AgentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	var agent database.User
	if err := database.DB.First(&agent, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
		return
	}
	if !database.IsAgentRole(agent.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User is not an agent"})
		return
	}

	if err := database.DB.Model(&agent).Update("status", req.Status).Error; err != nil {
		log.Printf("Error updating agent status: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update agent status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "status": req.Status})
}
